package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateWalletRequest is the request body for idempotent wallet creation.
type CreateWalletRequest struct {
	Name           string `json:"name" binding:"omitempty,max=100"`
	Currency       string `json:"currency" binding:"omitempty,len=3"`
	InitialBalance int64  `json:"initial_balance" binding:"omitempty,gte=0"`
}

// UpdateWalletRequest is the request body for wallet profile updates.
type UpdateWalletRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Currency *string `json:"currency,omitempty" binding:"omitempty,len=3"`
	Status   *string `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE FROZEN CLOSED"`
}

// WalletResponse is the response body for wallet queries.
type WalletResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	Balance   int64  `json:"balance"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// WalletBalanceResponse is the response for balance query.
type WalletBalanceResponse struct {
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// CreateTransactionRequest is the request body for ledger entry creation.
type CreateTransactionRequest struct {
	WalletID    *string        `json:"wallet_id,omitempty" binding:"omitempty,uuid"`
	Direction   string         `json:"direction" binding:"required,oneof=CREDIT DEBIT"`
	Amount      int64          `json:"amount" binding:"required,gt=0"`
	Currency    string         `json:"currency" binding:"omitempty,len=3"`
	Description string         `json:"description" binding:"omitempty,max=500"`
	Category    string         `json:"category" binding:"omitempty,safe_id,max=50"`
	Status      string         `json:"status" binding:"omitempty,oneof=PENDING COMPLETED FAILED CANCELLED"`
	OccurredAt  *int64         `json:"occurred_at,omitempty"` // Unix timestamp; omitted = now
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// UpdateTransactionRequest is the request body for editing the
// non-financial transaction fields.
type UpdateTransactionRequest struct {
	Description *string        `json:"description,omitempty" binding:"omitempty,max=500"`
	Category    *string        `json:"category,omitempty" binding:"omitempty,safe_id,max=50"`
	Status      *string        `json:"status,omitempty" binding:"omitempty,oneof=PENDING COMPLETED FAILED CANCELLED"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// TransactionResponse is the response body for ledger entries.
type TransactionResponse struct {
	ID          string         `json:"id"`
	WalletID    string         `json:"wallet_id"`
	Direction   string         `json:"direction"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category"`
	Status      string         `json:"status"`
	Fingerprint string         `json:"fingerprint"`
	OccurredAt  string         `json:"occurred_at"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Reversed    bool           `json:"reversed"`
	ReversedAt  *string        `json:"reversed_at,omitempty"`
	Verified    bool           `json:"verified"`
	VerifiedAt  *string        `json:"verified_at,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// StatsResponse is the response for dashboard statistics.
type StatsResponse struct {
	TotalTransactions int64 `json:"total_transactions"`
	Completed         int64 `json:"completed"`
	Failed            int64 `json:"failed"`
	Reversed          int64 `json:"reversed"`
	TotalCredited     int64 `json:"total_credited"`
	TotalDebited      int64 `json:"total_debited"`
}

// AlertResponse is the response body for fraud alerts.
type AlertResponse struct {
	ID            string   `json:"id"`
	TransactionID string   `json:"transaction_id"`
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons,omitempty"`
	Severity      string   `json:"severity"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// CreateBudgetRequest is the request body for budget creation.
type CreateBudgetRequest struct {
	Category     string `json:"category" binding:"required,safe_id,max=50"`
	MonthlyLimit int64  `json:"monthly_limit" binding:"required,gt=0"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
}

// UpdateBudgetRequest is the request body for budget updates.
type UpdateBudgetRequest struct {
	Category     string `json:"category" binding:"required,safe_id,max=50"`
	MonthlyLimit int64  `json:"monthly_limit" binding:"required,gt=0"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
}

// BudgetUsageResponse pairs a budget with its current-month spend.
type BudgetUsageResponse struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	MonthlyLimit int64  `json:"monthly_limit"`
	Currency     string `json:"currency"`
	Spent        int64  `json:"spent"`
	Exceeded     bool   `json:"exceeded"`
	CreatedAt    string `json:"created_at"`
}

// BudgetResponse is the response body for budget writes.
type BudgetResponse struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	MonthlyLimit int64  `json:"monthly_limit"`
	Currency     string `json:"currency"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// CreateGoalRequest is the request body for savings goal creation.
type CreateGoalRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	TargetAmount int64  `json:"target_amount" binding:"required,gt=0"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
	Deadline     *int64 `json:"deadline,omitempty"` // Unix timestamp
}

// ContributeRequest is the request body for goal contributions.
type ContributeRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// GoalResponse is the response body for savings goals.
type GoalResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TargetAmount int64   `json:"target_amount"`
	SavedAmount  int64   `json:"saved_amount"`
	Currency     string  `json:"currency"`
	Deadline     *string `json:"deadline,omitempty"`
	Progress     int     `json:"progress"`
	Reached      bool    `json:"reached"`
	CreatedAt    string  `json:"created_at"`
}
