package workflow

import (
	"github.com/dugoutlabs/statline/pkg/pipeline/activity"
	"github.com/dugoutlabs/statline/pkg/temporal"
)

type Context struct {
	TemporalClient  *temporal.Client
	ActivityContext *activity.Context
}
