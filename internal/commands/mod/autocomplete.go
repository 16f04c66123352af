// Package mod - autocomplete for case-number options
package mod

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// maxChoices is Discord's limit on autocomplete suggestions.
const maxChoices = 25

// caseNumberAutoComplete suggests the guild's most recent case numbers
// for the caso option, filtered by whatever digits the moderator has
// typed so far.
func caseNumberAutoComplete(ctx *discord.CommandContext) {
	cl := moderation.Get()
	if cl == nil {
		return
	}

	nums, err := cl.Ledger.CaseNumbers(context.Background(), ctx.Interaction.GuildID)
	if err != nil {
		logger.Debug(fmt.Sprintf("Autocompletado de casos no disponible: %v", err), "CMD-Mod")
		return
	}

	// During autocomplete the focused value arrives as partial text.
	typed := ""
	if opt := ctx.GetOption("caso"); opt != nil && opt.Value != nil {
		typed = strings.TrimSpace(fmt.Sprint(opt.Value))
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxChoices)
	for i := len(nums) - 1; i >= 0 && len(choices) < maxChoices; i-- {
		s := strconv.Itoa(nums[i])
		if typed != "" && !strings.HasPrefix(s, typed) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  "Caso #" + s,
			Value: nums[i],
		})
	}

	if err := ctx.SendAutoCompleteChoices(choices); err != nil {
		logger.Debug(fmt.Sprintf("Error enviando autocompletado: %v", err), "CMD-Mod")
	}
}
