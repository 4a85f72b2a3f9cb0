package models

// Названия тарифов платформы.
const (
	PlanBasic    = "basic"
	PlanStandard = "standard"
	PlanPro      = "pro"
)

// PlanLimits задаёт месячный лимит отзывов для каждого тарифа.
var PlanLimits = map[string]int{
	PlanBasic:    50,
	PlanStandard: 500,
	PlanPro:      2000,
}

// PlanPricesUSD задаёт стоимость тарифов в центах за месяц.
var PlanPricesUSD = map[string]int64{
	PlanBasic:    0,
	PlanStandard: 2900,
	PlanPro:      9900,
}

// IsValidPlan проверяет, что название тарифа известно платформе.
func IsValidPlan(plan string) bool {
	_, ok := PlanLimits[plan]
	return ok
}

// HasAdvancedAccess — единый предикат доступа к расширенным разделам
// (статистика, архив): тариф задан и не является базовым.
func HasAdvancedAccess(plan string) bool {
	return plan != "" && plan != PlanBasic
}

// PlanInfo описывает текущее состояние тарифа пользователя,
// отдаётся конечной точкой user-plan-info и управляет доступом на клиенте.
type PlanInfo struct {
	Plan         string `json:"plan"`
	MonthlyCount int    `json:"monthly_count"`
	Limit        int    `json:"limit"`
	Remaining    int    `json:"remaining"`
	LimitReached bool   `json:"limit_reached"`
	PlanExpired  bool   `json:"plan_expired"`
	Trial        bool   `json:"trial"`
	Message      string `json:"message"`
}

// UpgradeRequired сообщает, что тариф истёк и пробный период закончился:
// в этом состоянии клиент показывает блокирующее предложение продлить тариф.
func (p PlanInfo) UpgradeRequired() bool {
	return p.PlanExpired && !p.Trial
}
