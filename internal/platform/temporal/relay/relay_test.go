package relay

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	boarddomain "github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	"github.com/taskhive/taskhive-api/internal/shared/domain"
)

func TestEnvelop_PreservesOrderAndPayload(t *testing.T) {
	boardID := uuid.New()
	events := []domain.Event{
		boarddomain.NewBoardCreated(boardID, "Roadmap"),
		boarddomain.NewBoardArchived(boardID, "Roadmap"),
	}

	envelopes, err := Envelop(events)
	require.NoError(t, err)
	require.Len(t, envelopes, 2)
	require.Equal(t, boarddomain.EventBoardCreated, envelopes[0].Name)
	require.Equal(t, boarddomain.EventBoardArchived, envelopes[1].Name)
	require.Equal(t, events[0].OccurredAt(), envelopes[0].OccurredAt)

	var payload struct {
		BoardID uuid.UUID `json:"boardId"`
		Name    string    `json:"name"`
	}
	require.NoError(t, json.Unmarshal(envelopes[0].Payload, &payload))
	require.Equal(t, boardID, payload.BoardID)
	require.Equal(t, "Roadmap", payload.Name)
}

func TestEnvelop_Empty(t *testing.T) {
	envelopes, err := Envelop(nil)
	require.NoError(t, err)
	require.Empty(t, envelopes)
}
