package main

import "github.com/RxDataLab/xbrl-statements/cmd/xbrl-statements-demo/cmd"

func main() {
	cmd.Execute()
}
