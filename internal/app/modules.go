package app

import (
	"github.com/vk/plugserv/internal/config"
	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/modules/announce"
	"github.com/vk/plugserv/modules/echo"
	"github.com/vk/plugserv/modules/fetch"
	"github.com/vk/plugserv/modules/notes"
)

// coreModules is the definitive list of all plugins that are compiled into
// the plugserv binary, each constructed with its merged option block.
func coreModules(cfg *config.Config) []plugin.Module {
	return []plugin.Module{
		echo.New(),
		notes.New(cfg.Options("notes")),
		fetch.New(cfg.Options("fetch")),
		announce.New(cfg.Options("announce")),
	}
}
