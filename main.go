package main

import (
	"gitlab.com/lingzhi-platform/contribution_api/cmd"
)

func main() {
	cmd.Execute()
}
