package public

type LeaderboardResponse struct {
	Items  []LeaderboardItem `json:"items"`
	SortBy string            `json:"sort_by"`
	Limit  int               `json:"limit"`
}

type LeaderboardItem struct {
	Rank          int    `json:"rank"`
	Address       string `json:"address"`
	TotalMedals   int64  `json:"total_medals"`
	GamesPlayed   int64  `json:"games_played"`
	GamesWon      int64  `json:"games_won"`
	ReferredCount int64  `json:"referred_count"`
	Score         int64  `json:"activity_score"`
	Tier          string `json:"tier"`
}

type SocialState struct {
	Gmail   bool `json:"gmail"`
	X       bool `json:"x"`
	Discord bool `json:"discord"`
}

type PlayerProfile struct {
	Address       string      `json:"address"`
	VaultBalance  int64       `json:"vault_balance"`
	PendingMedals int64       `json:"pending_medals"`
	ChainMedals   int64       `json:"chain_medals"`
	TotalMedals   int64       `json:"total_medals"`
	GamesPlayed   int64       `json:"games_played"`
	GamesWon      int64       `json:"games_won"`
	ReferralCode  string      `json:"referral_code,omitempty"`
	ReferredCount int64       `json:"referred_count"`
	Socials       SocialState `json:"socials"`
	Score         int64       `json:"activity_score"`
	Tier          string      `json:"tier"`
}
