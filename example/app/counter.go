package app

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/veldt-dev/veldt/pkg/serverfn"
	"github.com/veldt-dev/veldt/pkg/vdom"
)

// count is shared worker-side state for the demo counter.
var count atomic.Int64

func init() {
	serverfn.MustRegister("increment_count", serverfn.EncodingURL, IncrementCount)
	serverfn.MustRegister("decrement_count", serverfn.EncodingURL, DecrementCount)
	serverfn.MustRegister("clear_count", serverfn.EncodingURL, ClearCount)
	serverfn.MustRegister("get_count", serverfn.EncodingGetJSON, GetCount)
}

// IncrementCount bumps the counter and returns the new value.
func IncrementCount(ctx context.Context, _ struct{}) (int64, error) {
	return count.Add(1), nil
}

// DecrementCount lowers the counter and returns the new value.
func DecrementCount(ctx context.Context, _ struct{}) (int64, error) {
	return count.Add(-1), nil
}

// ClearCount resets the counter.
func ClearCount(ctx context.Context, _ struct{}) (int64, error) {
	count.Store(0)
	return 0, nil
}

// GetCount reads the counter without changing it.
func GetCount(ctx context.Context, _ struct{}) (int64, error) {
	return count.Load(), nil
}

// Counter renders the counter widget. The buttons are plain form
// posts to server functions, so the page works before hydration; the
// hydrated client intercepts them and patches in place instead.
func Counter() *vdom.VNode {
	value := strconv.FormatInt(count.Load(), 10)

	return vdom.Div(
		vdom.Class("counter"),
		vdom.H2(vdom.Text("Counter")),
		vdom.P(
			vdom.Text("Value: "),
			vdom.Span(vdom.ID("count-value"), vdom.Text(value)),
		),
		counterForm("increment_count", "+1"),
		counterForm("decrement_count", "-1"),
		counterForm("clear_count", "Clear"),
	)
}

func counterForm(fn, label string) *vdom.VNode {
	return vdom.Form(
		vdom.Method("post"),
		vdom.Action("/api/"+fn),
		vdom.Button(
			vdom.Type_("submit"),
			vdom.OnClick(func() {}),
			vdom.Text(label),
		),
	)
}
