package dto

import "github.com/shopspring/decimal"

type ConvertRequest struct {
	From   string `query:"from" validate:"required,max=100"`
	To     string `query:"to" validate:"required,max=100"`
	Amount string `query:"amount" validate:"required,numeric"`
}

type ConvertResponse struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	Result decimal.Decimal `json:"result"`
}
