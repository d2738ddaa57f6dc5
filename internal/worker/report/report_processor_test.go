package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftledger.service/internal/core"
	"shiftledger.service/internal/core/model"
	"shiftledger.service/internal/ports/messaging"
)

type mockQueries struct {
	basic        model.BasicMetrics
	basicErr     error
	gotBaselines []float64
}

func (m *mockQueries) GetBasicMetrics(_ context.Context, _ string) (model.BasicMetrics, error) {
	return m.basic, m.basicErr
}

func (m *mockQueries) GetOperationalMetrics(_ context.Context, _ string) (model.OperationalMetrics, error) {
	return model.OperationalMetrics{}, nil
}

func (m *mockQueries) GetFinancialMetrics(_ context.Context, _ string, baseline float64) (model.FinancialMetrics, error) {
	m.gotBaselines = append(m.gotBaselines, baseline)
	return model.FinancialMetrics{}, nil
}

func (m *mockQueries) GetQualityMetrics(_ context.Context, _ string) (model.QualityMetrics, error) {
	return model.QualityMetrics{}, nil
}

type mockReports struct {
	sent    []core.ShiftSummary
	to      []string
	sendErr error
}

func (m *mockReports) SendShiftSummary(_ context.Context, to string, summary core.ShiftSummary) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.to = append(m.to, to)
	m.sent = append(m.sent, summary)
	return nil
}

type mockCompanyAPI struct {
	baseline float64
	err      error
	calls    int
}

func (m *mockCompanyAPI) PointAverageCheck(_ context.Context, _ string) (float64, error) {
	m.calls++
	return m.baseline, m.err
}

func noticeMessage(t *testing.T, notice messaging.ShiftClosedNotice) types.Message {
	t.Helper()
	body, err := json.Marshal(notice)
	require.NoError(t, err)
	return types.Message{
		Body: aws.String(string(body)),
		Attributes: map[string]string{
			string(types.MessageSystemAttributeNameApproximateReceiveCount): "1",
		},
	}
}

func TestProcessSendsSummary(t *testing.T) {
	pointID := "point-7"
	queries := &mockQueries{basic: model.BasicMetrics{TotalRevenue: 980, ChecksCount: 4}}
	reports := &mockReports{}
	company := &mockCompanyAPI{baseline: 245}
	p := NewProcessor(queries, reports, company, nil, "manager@example.com")

	msg := noticeMessage(t, messaging.ShiftClosedNotice{
		ShiftID:  "shift-1",
		PointID:  &pointID,
		ClosedAt: time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC),
	})

	retry, _, err := p.Process(context.Background(), msg)
	require.NoError(t, err)
	assert.False(t, retry)

	require.Len(t, reports.sent, 1)
	assert.Equal(t, "shift-1", reports.sent[0].ShiftID)
	assert.Equal(t, 980.0, reports.sent[0].Basic.TotalRevenue)
	assert.Equal(t, []string{"manager@example.com"}, reports.to)
	assert.Equal(t, []float64{245}, queries.gotBaselines)
	assert.Equal(t, 1, company.calls)
}

func TestProcessMalformedNoticeIsNotRetried(t *testing.T) {
	p := NewProcessor(&mockQueries{}, &mockReports{}, &mockCompanyAPI{}, nil, "manager@example.com")

	retry, _, err := p.Process(context.Background(), types.Message{Body: aws.String(`{not json`)})
	require.Error(t, err)
	assert.False(t, retry)
}

func TestProcessDegradesWhenCompanyAPIFails(t *testing.T) {
	queries := &mockQueries{}
	reports := &mockReports{}
	company := &mockCompanyAPI{err: errors.New("company api down")}
	p := NewProcessor(queries, reports, company, nil, "manager@example.com")

	msg := noticeMessage(t, messaging.ShiftClosedNotice{ShiftID: "shift-1", PointID: aws.String("point-7")})

	retry, _, err := p.Process(context.Background(), msg)
	require.NoError(t, err, "summary goes out without the baseline")
	assert.False(t, retry)
	assert.Equal(t, []float64{0}, queries.gotBaselines)
	require.Len(t, reports.sent, 1)
}

func TestProcessSkipsBaselineWithoutPoint(t *testing.T) {
	queries := &mockQueries{}
	company := &mockCompanyAPI{baseline: 245}
	p := NewProcessor(queries, &mockReports{}, company, nil, "manager@example.com")

	msg := noticeMessage(t, messaging.ShiftClosedNotice{ShiftID: "shift-1"})

	_, _, err := p.Process(context.Background(), msg)
	require.NoError(t, err)
	assert.Zero(t, company.calls)
	assert.Equal(t, []float64{0}, queries.gotBaselines)
}

func TestProcessRetriesOnQueryFailure(t *testing.T) {
	queries := &mockQueries{basicErr: errors.New("store unavailable")}
	p := NewProcessor(queries, &mockReports{}, &mockCompanyAPI{}, nil, "manager@example.com")

	msg := noticeMessage(t, messaging.ShiftClosedNotice{ShiftID: "shift-1"})

	retry, delay, err := p.Process(context.Background(), msg)
	require.Error(t, err)
	assert.True(t, retry)
	assert.Equal(t, int32(20), delay)
}

func TestProcessRetriesOnSendFailure(t *testing.T) {
	reports := &mockReports{sendErr: errors.New("ses throttled")}
	p := NewProcessor(&mockQueries{}, reports, &mockCompanyAPI{}, nil, "manager@example.com")

	msg := noticeMessage(t, messaging.ShiftClosedNotice{ShiftID: "shift-1"})

	retry, _, err := p.Process(context.Background(), msg)
	require.Error(t, err)
	assert.True(t, retry)
}
