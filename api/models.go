package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/735726032/openai-SenseVoice/server"
	"github.com/735726032/openai-SenseVoice/transcription"
)

// Model is one entry of the /v1/models list.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the /v1/models response.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

var modelsCreated = time.Now().Unix()

// ListModels handles GET /v1/models.
func (h *TranscriptionHandler) ListModels(c *gin.Context) {
	ids := transcription.SupportedModels.Values()
	list := ModelList{Object: "list", Data: make([]Model, 0, len(ids))}
	for _, id := range ids {
		list.Data = append(list.Data, Model{
			ID:      id,
			Object:  "model",
			Created: modelsCreated,
			OwnedBy: "FunAudioLLM",
		})
	}
	server.RespondJSON(c, list)
}
