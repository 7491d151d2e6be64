package main

import (
	"github.com/kaspanet/spvwire/infrastructure/logger"
	"github.com/kaspanet/spvwire/util/panics"
)

var log = logger.RegisterSubSystem("SPVC")
var spawn = panics.GoroutineWrapperFunc(log)
