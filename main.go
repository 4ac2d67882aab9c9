package main

import "parcel/cmd"

func main() {
	cmd.Execute()
}
