package player

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
)

// LoadPlayersFile reads a JSON array of players in the bulk upsert shape.
func LoadPlayersFile(path string) ([]repository.UpsertPlayerRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read players file: %w", err)
	}
	return ParsePlayers(data)
}

func ParsePlayers(data []byte) ([]repository.UpsertPlayerRequest, error) {
	var reqs []repository.UpsertPlayerRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("failed to parse players: %w", err)
	}
	return reqs, nil
}
