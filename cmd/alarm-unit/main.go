package main

import "github.com/oshokin/order-kiosk/cmd/alarm-unit/cmd"

func main() {
	cmd.Execute()
}
