package main

// main is never called: Nakama loads this package with -buildmode=plugin and
// invokes InitModule. It exists only so `go build ./...` can link the package.
func main() {}
