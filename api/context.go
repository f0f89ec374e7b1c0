package api

import (
	"context"

	"github.com/angelbv/cvweb-backend/services"
)

type keyType string

const callerKey keyType = "caller"

// ctxWithCaller stamps the authenticated caller into the request context.
func ctxWithCaller(ctx context.Context, caller services.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// callerFromCtx retrieves the caller; anonymous requests get the zero value.
func callerFromCtx(ctx context.Context) services.Caller {
	if caller, ok := ctx.Value(callerKey).(services.Caller); ok {
		return caller
	}
	return services.Caller{}
}
