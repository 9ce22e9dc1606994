package claims

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockScanner struct {
	mock.Mock
}

func (m *mockScanner) ClaimIDsForDay(ctx context.Context, prefix, day string) ([]string, error) {
	args := m.Called(ctx, prefix, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var testDay = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

func TestNextClaimIDStartsAtZero(t *testing.T) {
	s := new(mockScanner)
	s.On("ClaimIDsForDay", mock.Anything, "CSHLSIP", "20260901").Return([]string{}, nil)

	id := NextClaimID(context.Background(), s, "CSHLSIP", testDay)
	assert.Equal(t, "CSHLSIP-20260901-0", id)
	s.AssertExpectations(t)
}

func TestNextClaimIDIncrementsHighestSequence(t *testing.T) {
	s := new(mockScanner)
	s.On("ClaimIDsForDay", mock.Anything, "CSHLSIP", "20260901").Return([]string{
		"CSHLSIP-20260901-0",
		"CSHLSIP-20260901-7",
		"CSHLSIP-20260901-3",
	}, nil)

	id := NextClaimID(context.Background(), s, "CSHLSIP", testDay)
	assert.Equal(t, "CSHLSIP-20260901-8", id)
}

func TestNextClaimIDIgnoresMalformedAndForeignIDs(t *testing.T) {
	s := new(mockScanner)
	s.On("ClaimIDsForDay", mock.Anything, "CSHLSIP", "20260901").Return([]string{
		"CSHLSIP-20260901-2",
		"CSHLSIP-20260901-abc",
		"OTHER-20260901-50",
		"claim_a1b2c3d4",
	}, nil)

	id := NextClaimID(context.Background(), s, "CSHLSIP", testDay)
	assert.Equal(t, "CSHLSIP-20260901-3", id)
}

func TestNextClaimIDFallsBackToTimestampOnScanFailure(t *testing.T) {
	s := new(mockScanner)
	s.On("ClaimIDsForDay", mock.Anything, "CSHLSIP", "20260901").Return(nil, errors.New("query failed"))

	id := NextClaimID(context.Background(), s, "CSHLSIP", testDay)
	assert.Equal(t, fmt.Sprintf("CSHLSIP-20260901-%d", testDay.Unix()), id)
}

func TestDayOfUsesUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2026, 9, 1, 2, 0, 0, 0, ist) // 20:30 the previous day in UTC
	assert.Equal(t, "20260831", DayOf(late))
}

func TestDraftAndDocumentIDShapes(t *testing.T) {
	draft := NewDraftID()
	claim := NewDraftClaimID()
	doc := NewDocumentID()

	assert.Regexp(t, `^draft_[0-9a-f]{8}$`, draft)
	assert.Regexp(t, `^claim_[0-9a-f]{8}$`, claim)
	assert.Regexp(t, `^doc_[0-9a-f]{8}$`, doc)
	assert.NotEqual(t, NewDraftID(), draft)
}
