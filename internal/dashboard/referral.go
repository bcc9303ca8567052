package dashboard

import (
	"strings"

	"storefront-web/internal/domain"
)

// RewardPerFriend is the advertised referral reward in rupees.
const RewardPerFriend = 100

// ReferralView is what the referrals panel renders. Totals are not
// tracked yet and always read zero.
type ReferralView struct {
	Code           string `json:"code"`
	Banner         string `json:"banner"`
	TotalReferrals int    `json:"totalReferrals"`
	TotalEarnings  int    `json:"totalEarnings"`
}

// ReferralCode is the upper-cased first three runes of the name followed
// by the upper-cased last four runes of the id. Short inputs contribute
// what they have.
func ReferralCode(identity domain.Identity) string {
	name := []rune(identity.Name)
	if len(name) > 3 {
		name = name[:3]
	}
	id := []rune(identity.ID)
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return strings.ToUpper(string(name)) + strings.ToUpper(string(id))
}

func referralView(identity domain.Identity) ReferralView {
	return ReferralView{
		Code:   ReferralCode(identity),
		Banner: "Share your unique code and get ₹100 for every friend who makes their first purchase!",
	}
}
