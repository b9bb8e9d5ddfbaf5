package nlsched

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendamail/agendamail/plugin/annotate"
)

func TestProcessSingleEvent(t *testing.T) {
	service := NewService(nil)

	records := service.ProcessAt(context.Background(), "Meeting with Bob next Monday at 3pm.", anchor)
	require.Len(t, records, 1)
	assert.Equal(t, Record{
		Event: "Meeting",
		Date:  "09-03-26",
		Time:  "15:00",
	}, records[0])
}

func TestProcessIdiomaticTimeDefaultsToToday(t *testing.T) {
	service := NewService(nil)

	records := service.ProcessAt(context.Background(), "Chemistry class at half past 3 pm.", anchor)
	require.Len(t, records, 1)
	assert.Equal(t, Record{
		Event: "Chemistry class",
		Date:  "04-03-26",
		Time:  "15:30",
	}, records[0])
}

func TestProcessCancellation(t *testing.T) {
	service := NewService(nil)

	records := service.ProcessAt(context.Background(), "The meeting is cancelled.", anchor)
	require.Len(t, records, 1)
	assert.Equal(t, Record{
		Event:     "Meeting: Cancelled",
		Date:      "04-03-26",
		Time:      NoTimeSentinel,
		Cancelled: true,
	}, records[0])
}

func TestProcessSuppressesNoise(t *testing.T) {
	service := NewService(nil)

	records := service.ProcessAt(context.Background(), "Quickly walked outside.", anchor)
	assert.Empty(t, records)
}

func TestProcessDateCarryForward(t *testing.T) {
	service := NewService(nil)

	records := service.ProcessAt(context.Background(), "Report due next week. Also discuss budget.", anchor)
	require.Len(t, records, 2)

	assert.Equal(t, "Report", records[0].Event)
	assert.Equal(t, "09-03-26", records[0].Date)
	assert.Equal(t, NoTimeSentinel, records[0].Time)

	// The second clause has no date of its own and inherits the
	// previously resolved one.
	assert.Equal(t, "Discussion", records[1].Event)
	assert.Equal(t, "09-03-26", records[1].Date)
}

func TestProcessSplitsMultiEventSentence(t *testing.T) {
	service := NewService(nil)

	records := service.ProcessAt(context.Background(),
		"Meeting tomorrow at 3pm, submission on Friday.", anchor)
	require.Len(t, records, 2)

	assert.Equal(t, Record{Event: "Meeting", Date: "05-03-26", Time: "15:00"}, records[0])
	assert.Equal(t, Record{Event: "Submission", Date: "06-03-26", Time: NoTimeSentinel}, records[1])
}

func TestProcessDeterministic(t *testing.T) {
	service := NewService(nil)
	paragraph := "Meeting next Monday at 3pm. Submit the report by Friday, call with the team at noon. Quickly walked outside."

	first := service.ProcessAt(context.Background(), paragraph, anchor)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, service.ProcessAt(context.Background(), paragraph, anchor))
	}
}

func TestProcessEmptyParagraph(t *testing.T) {
	service := NewService(nil)
	assert.Empty(t, service.ProcessAt(context.Background(), "", anchor))
	assert.Empty(t, service.ProcessAt(context.Background(), "   ", anchor))
}

func TestProcessDegradesOnAnnotatorFailure(t *testing.T) {
	mock := annotate.NewMock()
	mock.Err = errors.New("sidecar unreachable")
	service := NewService(mock)

	// Annotation failure degrades to an empty annotation: entity-derived
	// dates and times are lost, but the priority dictionary still labels
	// the clause off the raw text.
	records := service.ProcessAt(context.Background(), "Meeting with Bob next Monday at 3pm.", anchor)
	require.Len(t, records, 1)
	assert.Equal(t, Record{
		Event: "Meeting",
		Date:  "04-03-26",
		Time:  NoTimeSentinel,
	}, records[0])
}

func TestProcessHonorsCannedAnnotation(t *testing.T) {
	mock := annotate.NewMock()
	mock.Canned["Standup at 9am."] = &annotate.Annotation{
		Tokens: []annotate.Token{
			{Text: "Standup", POS: annotate.POSNoun, Lemma: "standup", Index: 0},
			{Text: "at", POS: annotate.POSAdp, Lemma: "at", Index: 1},
			{Text: "9am", POS: annotate.POSOther, Lemma: "9am", Index: 2},
		},
		Entities: []annotate.Entity{
			{Text: "9am", Kind: annotate.EntityTime, Start: 2, End: 3},
		},
	}
	service := NewService(mock)

	records := service.ProcessAt(context.Background(), "Standup at 9am.", anchor)
	require.Len(t, records, 1)
	assert.Equal(t, "Standup", records[0].Event)
	assert.Equal(t, "09:00", records[0].Time)
}

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled("The sync is cancelled."))
	assert.True(t, IsCancelled("Standup canceled today."))
	assert.False(t, IsCancelled("The sync is moved."))
}
