package main

import "github.com/oshokin/order-kiosk/cmd/order-kiosk/cmd"

func main() {
	cmd.Execute()
}
