package app

import (
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/traits/componentdescriptor"
	"github.com/pipewright/pipewright/traits/notifications"
	"github.com/pipewright/pipewright/traits/pullrequest"
	"github.com/pipewright/pipewright/traits/release"
	"github.com/pipewright/pipewright/traits/scheduling"
	"github.com/pipewright/pipewright/traits/version"
)

// builtinTraits is the definitive list of trait modules compiled into the
// pipewright binary.
var builtinTraits = []trait.Module{
	&version.Module{},
	&componentdescriptor.Module{},
	&release.Module{},
	&notifications.Module{},
	&scheduling.Module{},
	&pullrequest.Module{},
}
