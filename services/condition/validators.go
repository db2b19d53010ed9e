package condition

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// The game-data lookups these validators would make (attendance records,
// kill counts, play time) live in systems not yet integrated. Until they
// are, each validator keeps the placeholder decision rule the platform
// has shipped with: deterministic off the user id where possible, so the
// outcome is stable per user.

type attendanceDaysValidator struct{}

func NewAttendanceDaysValidator() Validator {
	return &attendanceDaysValidator{}
}

// Validate passes users whose numeric id component is odd.
// TODO: replace with a count over attendance records once the attendance
// store is integrated.
func (v *attendanceDaysValidator) Validate(ctx context.Context, userID, eventID string, data map[string]any) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, userID)

	n, err := strconv.Atoi(digits)
	if err != nil {
		n = 0
	}
	return n%2 == 1
}

func (v *attendanceDaysValidator) Describe(data map[string]any) string {
	return fmt.Sprintf("attend at least %d days", intField(data, "requireDays"))
}

type monsterKillValidator struct{}

func NewMonsterKillValidator() Validator {
	return &monsterKillValidator{}
}

// Validate passes roughly 60% of users, keyed off the user id.
func (v *monsterKillValidator) Validate(ctx context.Context, userID, eventID string, data map[string]any) bool {
	return charSum(userID)%5 < 3
}

func (v *monsterKillValidator) Describe(data map[string]any) string {
	name := stringField(data, "monsterName")
	if name == "" {
		name = "the target monster"
	}
	return fmt.Sprintf("defeat %s %d times", name, intField(data, "requiredKills"))
}

type inviteFriendsValidator struct{}

func NewInviteFriendsValidator() Validator {
	return &inviteFriendsValidator{}
}

func (v *inviteFriendsValidator) Validate(ctx context.Context, userID, eventID string, data map[string]any) bool {
	return len(userID)%3 == 0
}

func (v *inviteFriendsValidator) Describe(data map[string]any) string {
	return fmt.Sprintf("invite %d friends", intField(data, "requiredInvites"))
}

type playTimeValidator struct {
	// overridable for deterministic tests
	randFloat func() float64
}

func NewPlayTimeValidator() Validator {
	return &playTimeValidator{randFloat: rand.Float64}
}

// Validate passes roughly 60% of calls.
func (v *playTimeValidator) Validate(ctx context.Context, userID, eventID string, data map[string]any) bool {
	return v.randFloat() > 0.4
}

func (v *playTimeValidator) Describe(data map[string]any) string {
	return fmt.Sprintf("play for %d hours", intField(data, "requiredHours"))
}

type defeatBossWeeklyValidator struct{}

func NewDefeatBossWeeklyValidator() Validator {
	return &defeatBossWeeklyValidator{}
}

// Validate passes roughly 25% of users, keyed off the user id.
func (v *defeatBossWeeklyValidator) Validate(ctx context.Context, userID, eventID string, data map[string]any) bool {
	return charSum(userID)%4 == 0
}

func (v *defeatBossWeeklyValidator) Describe(data map[string]any) string {
	name := stringField(data, "bossName")
	if name == "" {
		name = "the weekly boss"
	}
	return fmt.Sprintf("defeat %s for %d consecutive weeks", name, intField(data, "requiredWeeks"))
}

func charSum(s string) int {
	sum := 0
	for _, r := range s {
		sum += int(r)
	}
	return sum
}
