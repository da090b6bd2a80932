// Command igengage checks the engagement rate of public Instagram profiles
// from the terminal, over HTTP, or through a small web front-end.
package main

func main() {
	Execute()
}
