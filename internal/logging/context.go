package logging

import "context"

type fieldsKey struct{}

// ContextWith returns ctx carrying extra key/value pairs. Both backends add
// them to every record logged with that ctx.
func ContextWith(ctx context.Context, args ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(args) == 0 {
		return ctx
	}
	prev := contextArgs(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	return context.WithValue(ctx, fieldsKey{}, append(merged, args...))
}

func contextArgs(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	args, _ := ctx.Value(fieldsKey{}).([]any)
	return args
}

func withContextArgs(ctx context.Context, args []any) []any {
	extra := contextArgs(ctx)
	if len(extra) == 0 {
		return args
	}
	out := make([]any, 0, len(extra)+len(args))
	return append(append(out, extra...), args...)
}
