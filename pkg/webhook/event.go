package webhook

import (
	"net/http"
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/memstore"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
)

// eventRequest is the /event payload (spec.md §6).
type eventRequest struct {
	ChannelID string         `json:"channelId"`
	EventType string         `json:"eventType"`
	Data      map[string]any `json:"data,omitempty"`
}

type acceptedResponse struct {
	Success bool `json:"success"`
}

// handleEvent records an external event into the channel's shared memory
// state, keyed by eventType (spec.md §6). Events are informational;
// they do not mutate tasks or the DAG directly.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ChannelID == "" {
		writeError(w, mxerrors.New(mxerrors.InvalidRequest, "webhook.event", "channelId is required"))
		return
	}
	if req.EventType == "" {
		writeError(w, mxerrors.New(mxerrors.InvalidRequest, "webhook.event", "eventType is required"))
		return
	}
	if _, err := s.channels.FindByID(req.ChannelID); err != nil {
		writeError(w, mxerrors.Wrap(mxerrors.NotFound, "webhook.event", "unknown channel: "+req.ChannelID, err))
		return
	}

	if _, err := s.channelMem.SetSharedState(req.ChannelID, "event:"+req.EventType, map[string]any{
		"data":      req.Data,
		"receivedAt": time.Now(),
	}); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, acceptedResponse{Success: true})
}

// messageRequest is the /message payload (spec.md §6).
type messageRequest struct {
	ChannelID string         `json:"channelId"`
	Message   string         `json:"message"`
	AgentID   string         `json:"agentId,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// handleMessage relays an external message into the channel's conversation
// memory, optionally attributed to agentId (spec.md §6).
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ChannelID == "" {
		writeError(w, mxerrors.New(mxerrors.InvalidRequest, "webhook.message", "channelId is required"))
		return
	}
	if req.Message == "" {
		writeError(w, mxerrors.New(mxerrors.InvalidRequest, "webhook.message", "message is required"))
		return
	}
	if _, err := s.channels.FindByID(req.ChannelID); err != nil {
		writeError(w, mxerrors.Wrap(mxerrors.NotFound, "webhook.message", "unknown channel: "+req.ChannelID, err))
		return
	}
	if req.AgentID != "" {
		if _, err := s.agents.FindByID(req.AgentID); err != nil {
			writeError(w, mxerrors.Wrap(mxerrors.NotFound, "webhook.message", "unknown agent: "+req.AgentID, err))
			return
		}
	}

	msg := memstore.Message{
		Role:         "user",
		Content:      req.Message,
		ContextLayer: "conversation",
		Metadata:     req.Metadata,
		CreatedAt:    time.Now(),
	}
	if _, err := s.channelMem.AppendMessage(req.ChannelID, msg); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, acceptedResponse{Success: true})
}
