package main

import "github.com/oshokin/order-kiosk/cmd/alarm-status/cmd"

func main() {
	cmd.Execute()
}
