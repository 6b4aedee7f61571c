// Package main is the entry point for the repopulse CLI.
package main

import (
	"github.com/huangsam/repopulse/cmd"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	cmd.SyncLogger()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
