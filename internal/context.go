package internal

import "context"

type ctxKeyCorrelationId struct{}

func CtxWithCorrelationId(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationId{}, correlationId)
}

func CorrelationIdFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	correlationId, _ := ctx.Value(ctxKeyCorrelationId{}).(string)
	return correlationId
}

// EnsureCorrelationId returns ctx unchanged if it already carries a
// correlation id, otherwise it attaches a newly generated one.
func EnsureCorrelationId(ctx context.Context) context.Context {
	if CorrelationIdFromCtx(ctx) != "" {
		return ctx
	}
	return CtxWithCorrelationId(ctx, GenerateId())
}
