package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
	"github.com/spragsdale/mockdraftapp/go/internal/roster"
)

const defaultAvailableLimit = 25

// DraftHandler exposes draft operations as MCP tools
type DraftHandler struct {
	drafts  *draft.App
	players *player.App
}

// NewDraftHandler creates a new draft tool handler
func NewDraftHandler(drafts *draft.App, players *player.App) *DraftHandler {
	return &DraftHandler{drafts: drafts, players: players}
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func draftTool(name, description string, props map[string]interface{}) mcp.Tool {
	all := map[string]interface{}{
		"draft_id": stringProp("The mock draft ID"),
	}
	for k, v := range props {
		all[k] = v
	}
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: all,
		},
	}
}

// Tools returns every tool the handler serves
func (h *DraftHandler) Tools() []mcp.Tool {
	teamID := stringProp("The team ID")
	return []mcp.Tool{
		draftTool("team_on_clock",
			"Show which team is on the clock, the round and pick, and how many picks until the user team is up",
			nil),
		draftTool("remaining_needs",
			"List the positions a team still has to fill, with composite slots (CI, MI) and bench counted",
			map[string]interface{}{"team_id": teamID}),
		draftTool("suggest_pick",
			"Suggest the player auto-draft would take for a team, without making the pick",
			map[string]interface{}{"team_id": teamID}),
		draftTool("available_players",
			"List the best available players, optionally only those eligible for a position",
			map[string]interface{}{
				"position": stringProp("Roster slot filter such as SS, CI, MI or OF"),
				"limit":    integerProp("Maximum players to return (default 25)"),
			}),
		draftTool("make_pick",
			"Record a pick of a player for a team",
			map[string]interface{}{
				"team_id":   teamID,
				"player_id": stringProp("The player ID to draft"),
				"slot":      integerProp("Roster slot for the pick; omit for the team's next slot"),
			}),
		draftTool("auto_pick",
			"Auto-draft the best player for a team by roster need; defaults to the team on the clock",
			map[string]interface{}{"team_id": stringProp("The team ID; omit for the team on the clock")}),
		draftTool("advance_to_user",
			"Auto-draft for computer teams until the user team is on the clock",
			nil),
		draftTool("reset_draft",
			"Delete every pick and return the draft to setup, keeping teams and order",
			nil),
	}
}

// Call routes a tool call by name. Failures are reported as error results,
// never as Go errors, so the client sees the message.
func (h *DraftHandler) Call(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	log.Info().Str("tool", name).Interface("args", args).Msg("tool called")

	var (
		result any
		err    error
	)
	switch name {
	case "team_on_clock":
		result, err = h.teamOnClock(ctx, args)
	case "remaining_needs":
		result, err = h.remainingNeeds(ctx, args)
	case "suggest_pick":
		result, err = h.suggestPick(ctx, args)
	case "available_players":
		result, err = h.availablePlayers(ctx, args)
	case "make_pick":
		result, err = h.makePick(ctx, args)
	case "auto_pick":
		result, err = h.autoPick(ctx, args)
	case "advance_to_user":
		result, err = h.advance(ctx, args)
	case "reset_draft":
		result, err = h.resetDraft(ctx, args)
	default:
		log.Warn().Str("tool", name).Msg("unknown tool called")
		return errorResult("Unknown tool: " + name), nil
	}
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("tool failed")
		return errorResult("Error: " + err.Error()), nil
	}
	return jsonResult(result)
}

func (h *DraftHandler) teamOnClock(ctx context.Context, args map[string]interface{}) (any, error) {
	draftID, err := uuidArg(args, "draft_id")
	if err != nil {
		return nil, err
	}
	return h.drafts.TeamOnClock(ctx, draftID)
}

type needsResult struct {
	Team  string       `json:"team"`
	Needs roster.Needs `json:"needs"`
	Total int          `json:"total"`
}

func (h *DraftHandler) remainingNeeds(ctx context.Context, args map[string]interface{}) (any, error) {
	draftID, err := uuidArg(args, "draft_id")
	if err != nil {
		return nil, err
	}
	teamID, err := uuidArg(args, "team_id")
	if err != nil {
		return nil, err
	}
	view, err := h.drafts.TeamRoster(ctx, draftID, teamID)
	if err != nil {
		return nil, err
	}
	return needsResult{Team: view.Team.Name, Needs: view.Needs, Total: view.Needs.Total()}, nil
}

type suggestionResult struct {
	Player *models.Player `json:"player"`
	Needs  roster.Needs   `json:"needs"`
}

func (h *DraftHandler) suggestPick(ctx context.Context, args map[string]interface{}) (any, error) {
	draftID, err := uuidArg(args, "draft_id")
	if err != nil {
		return nil, err
	}
	teamID, err := uuidArg(args, "team_id")
	if err != nil {
		return nil, err
	}
	p, needs, err := h.drafts.SuggestPick(ctx, draftID, teamID)
	if err != nil {
		return nil, err
	}
	return suggestionResult{Player: p, Needs: needs}, nil
}

func (h *DraftHandler) availablePlayers(ctx context.Context, args map[string]interface{}) (any, error) {
	draftID, err := uuidArg(args, "draft_id")
	if err != nil {
		return nil, err
	}
	f := player.Filter{Limit: defaultAvailableLimit}
	if pos, ok := args["position"].(string); ok {
		f.Position = models.Position(pos)
	}
	if limit, ok, err := intArg(args, "limit"); err != nil {
		return nil, err
	} else if ok {
		f.Limit = limit
	}
	return h.players.ListAvailablePlayers(ctx, draftID, f)
}

func (h *DraftHandler) makePick(ctx context.Context, args map[string]interface{}) (any, error) {
	req := draft.MakePickRequest{}
	var err error
	if req.DraftID, err = uuidArg(args, "draft_id"); err != nil {
		return nil, err
	}
	if req.TeamID, err = uuidArg(args, "team_id"); err != nil {
		return nil, err
	}
	if req.PlayerID, err = uuidArg(args, "player_id"); err != nil {
		return nil, err
	}
	slot, _, err := intArg(args, "slot")
	if err != nil {
		return nil, err
	}
	req.Slot = slot
	return h.drafts.MakePick(ctx, req)
}

func (h *DraftHandler) autoPick(ctx context.Context, args map[string]interface{}) (any, error) {
	draftID, err := uuidArg(args, "draft_id")
	if err != nil {
		return nil, err
	}

	var teamID uuid.UUID
	if _, ok := args["team_id"]; ok {
		if teamID, err = uuidArg(args, "team_id"); err != nil {
			return nil, err
		}
	} else {
		clock, err := h.drafts.TeamOnClock(ctx, draftID)
		if err != nil {
			return nil, err
		}
		if clock.Complete || clock.Team == nil {
			return nil, draft.ErrDraftCompleted
		}
		teamID = clock.Team.ID
	}
	return h.drafts.AutoDraftPick(ctx, draftID, teamID)
}

func (h *DraftHandler) advance(ctx context.Context, args map[string]interface{}) (any, error) {
	draftID, err := uuidArg(args, "draft_id")
	if err != nil {
		return nil, err
	}
	return h.drafts.AdvanceToUserTurn(ctx, draftID)
}

type resetResult struct {
	PicksDeleted int `json:"picks_deleted"`
}

func (h *DraftHandler) resetDraft(ctx context.Context, args map[string]interface{}) (any, error) {
	draftID, err := uuidArg(args, "draft_id")
	if err != nil {
		return nil, err
	}
	deleted, err := h.drafts.ResetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return resetResult{PicksDeleted: deleted}, nil
}

func uuidArg(args map[string]interface{}, key string) (uuid.UUID, error) {
	raw, ok := args[key].(string)
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("%s is required and must be a string", key)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid ID: %w", key, err)
	}
	return id, nil
}

// intArg reads an optional integer. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false, fmt.Errorf("%s must be an integer", key)
	}
	return int(f), true, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
	}, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}
