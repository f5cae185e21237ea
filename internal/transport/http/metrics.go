package httptransport

import "expvar"

var (
	metricDepositTotal  = expvar.NewInt("vault_deposit_total")
	metricWithdrawTotal = expvar.NewInt("vault_withdraw_total")

	metricJoinTotal   = expvar.NewInt("game_join_total")
	metricJoinErrors  = expvar.NewInt("game_join_errors_total")
	metricCommitTotal = expvar.NewInt("move_commit_total")
	metricRevealTotal = expvar.NewInt("move_reveal_total")

	metricFinalizeTotal   = expvar.NewInt("round_finalize_total")
	metricDistributeTotal = expvar.NewInt("prize_distribute_total")

	metricReferralUseTotal = expvar.NewInt("referral_use_total")
	metricMedalClaimTotal  = expvar.NewInt("medal_claim_total")
)
