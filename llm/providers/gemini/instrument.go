package gemini

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/BaSui01/solvegate/llm/providers/gemini"

// Observer 接收后端调用的聚合统计，通常由 Prometheus 收集器实现
type Observer interface {
	ObserveBackendCall(model, mode, outcome string, duration time.Duration)
	ObserveFrames(valid, malformed int)
	ObserveTokens(model string, prompt, candidates int64)
}

type nopObserver struct{}

func (nopObserver) ObserveBackendCall(string, string, string, time.Duration) {}
func (nopObserver) ObserveFrames(int, int)                                   {}
func (nopObserver) ObserveTokens(string, int64, int64)                       {}

// instrumentation 封装 OTel tracer 与 meter，未初始化 SDK 时为 noop
type instrumentation struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram
	bytesIn  metric.Int64Counter
}

func newInstrumentation() *instrumentation {
	meter := otel.Meter(instrumentationName)
	in := &instrumentation{tracer: otel.Tracer(instrumentationName)}

	// 创建失败时退化为 noop 仪表，不影响请求处理
	var err error
	in.duration, err = meter.Float64Histogram("gemini.request.duration",
		metric.WithDescription("Backend request duration"),
		metric.WithUnit("s"))
	if err != nil {
		in.duration = nil
	}
	in.bytesIn, err = meter.Int64Counter("gemini.response.bytes",
		metric.WithDescription("Decoded backend response bytes"),
		metric.WithUnit("By"))
	if err != nil {
		in.bytesIn = nil
	}
	return in
}

func (in *instrumentation) start(ctx context.Context, p Profile) (context.Context, trace.Span) {
	return in.tracer.Start(ctx, "gemini.generate_content",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gemini.profile", p.Name),
			attribute.String("gemini.model", p.Model),
			attribute.Bool("gemini.streaming", p.Streaming),
		))
}

func (in *instrumentation) record(ctx context.Context, p Profile, outcome string, d time.Duration, n int) {
	attrs := metric.WithAttributes(
		attribute.String("model", p.Model),
		attribute.String("mode", p.Mode()),
		attribute.String("outcome", outcome),
	)
	if in.duration != nil {
		in.duration.Record(ctx, d.Seconds(), attrs)
	}
	if in.bytesIn != nil && n > 0 {
		in.bytesIn.Add(ctx, int64(n), attrs)
	}
}
