package app

import (
	"github.com/vk/promptgridgo/internal/registry"
	"github.com/vk/promptgridgo/providers/echo"
	"github.com/vk/promptgridgo/providers/ollama"
	"github.com/vk/promptgridgo/providers/openai"
)

// coreModules is the definitive list of all provider modules that are
// compiled into the promptgridgo binary.
var coreModules = []registry.Module{
	&echo.Module{},
	&ollama.Module{},
	&openai.Module{},
}
