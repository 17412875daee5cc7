package main

import "github.com/lexiglot/translate-backend/internal/bootstrap"

func main() {
	bootstrap.Run()
}
