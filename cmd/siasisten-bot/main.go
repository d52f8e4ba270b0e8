package main

import (
	"github.com/absolutepraya/siasisten-bot/cmd/siasisten-bot/commands"
	"github.com/absolutepraya/siasisten-bot/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
