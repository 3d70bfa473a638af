package main

import "github.com/atinomeri/freela-sub000/internal/app"

func main() {
	app.Run()
}
