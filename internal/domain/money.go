package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Channel is the medium a payment was collected through.
type Channel string

const (
	ChannelCash         Channel = "cash"
	ChannelYape         Channel = "yape"
	ChannelPlin         Channel = "plin"
	ChannelBankTransfer Channel = "bank_transfer"
	ChannelOther        Channel = "other"
)

// Channels lists every channel in presentation order.
var Channels = []Channel{ChannelCash, ChannelYape, ChannelPlin, ChannelBankTransfer, ChannelOther}

// IsValid checks if the channel is known.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelCash, ChannelYape, ChannelPlin, ChannelBankTransfer, ChannelOther:
		return true
	}
	return false
}

// IsDigital reports whether the channel is one of the digital sub-channels.
func (c Channel) IsDigital() bool {
	return c.IsValid() && c != ChannelCash
}

// ParseChannel parses a channel name.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidChannel, s)
	}
	return c, nil
}

// DigitalAmounts itemizes the digital sub-channels.
type DigitalAmounts struct {
	Yape         decimal.Decimal `json:"yape"`
	Plin         decimal.Decimal `json:"plin"`
	BankTransfer decimal.Decimal `json:"bank_transfer"`
	Other        decimal.Decimal `json:"other"`
}

// Total sums all digital sub-channels.
func (d DigitalAmounts) Total() decimal.Decimal {
	return d.Yape.Add(d.Plin).Add(d.BankTransfer).Add(d.Other)
}

// Get returns the amount held for a digital channel.
func (d DigitalAmounts) Get(c Channel) decimal.Decimal {
	switch c {
	case ChannelYape:
		return d.Yape
	case ChannelPlin:
		return d.Plin
	case ChannelBankTransfer:
		return d.BankTransfer
	case ChannelOther:
		return d.Other
	}
	return decimal.Zero
}

// ChannelAmounts is an amount of money split into cash and digital channels.
type ChannelAmounts struct {
	Cash    decimal.Decimal `json:"cash"`
	Digital DigitalAmounts  `json:"digital"`
}

// Validate checks that every component is non-negative and storable.
func (a ChannelAmounts) Validate() error {
	components := []struct {
		name  string
		value decimal.Decimal
	}{
		{"cash", a.Cash},
		{"yape", a.Digital.Yape},
		{"plin", a.Digital.Plin},
		{"bank_transfer", a.Digital.BankTransfer},
		{"other", a.Digital.Other},
	}
	for _, c := range components {
		if c.value.IsNegative() {
			return fmt.Errorf("%w: %s is %s", ErrNegativeAmount, c.name, c.value)
		}
		if err := ValidateMoney(c.name, c.value); err != nil {
			return err
		}
	}
	return nil
}

// DigitalTotal sums the digital part.
func (a ChannelAmounts) DigitalTotal() decimal.Decimal {
	return a.Digital.Total()
}

// Total sums cash and digital.
func (a ChannelAmounts) Total() decimal.Decimal {
	return a.Cash.Add(a.DigitalTotal())
}

// CashOnly builds a ChannelAmounts holding only cash.
func CashOnly(cash decimal.Decimal) ChannelAmounts {
	return ChannelAmounts{Cash: cash}
}
