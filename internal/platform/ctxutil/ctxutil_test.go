package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	if GetRequestData(ctx) != nil {
		t.Fatal("empty context should carry no request data")
	}
	sid := uuid.New()
	ctx = WithRequestData(ctx, &RequestData{UserID: 9, SessionID: sid})
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID != 9 || rd.SessionID != sid {
		t.Fatalf("unexpected request data: %+v", rd)
	}

	ctx = WithTraceData(ctx, &TraceData{TraceID: "t", RequestID: "r"})
	if td := GetTraceData(ctx); td == nil || td.RequestID != "r" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
}
