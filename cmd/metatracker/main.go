package main

import (
	"metagame-tracker/cmd/metatracker/commands"
	"metagame-tracker/internal/components/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
