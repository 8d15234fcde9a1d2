// cmd/orfset/main.go
package main

import (
	"orfset/internal/app"
	"orfset/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
