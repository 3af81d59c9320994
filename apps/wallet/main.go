package wallet

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"gitlab.com/lingzhi-platform/contribution_api/config"
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// InstructionOp defines the two wallet operations the core can request
type InstructionOp string

const (
	InstructionOp_Credit InstructionOp = "credit_wallet"
	InstructionOp_Debit  InstructionOp = "debit_wallet"
)

// Instruction is one money movement request for the external wallet ledger.
// The core computes amounts; the wallet service moves real money.
type Instruction struct {
	RefID      string           `json:"ref_id"`
	Op         InstructionOp    `json:"op"`
	UserID     uint64           `json:"user_id"`
	Amount     string           `json:"amount"`
	Currency   string           `json:"currency"`
	LockPeriod model.LockPeriod `json:"lock_period,omitempty"`
	Reference  string           `json:"reference"`
	CreatedAt  time.Time        `json:"created_at"`
}

// App publishes wallet instructions to the configured topic
type App struct {
	writer *kafkaGo.Writer
}

// NewApp creates the wallet instruction publisher
func NewApp(cfg config.WalletConfig) *App {
	writer := &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkaGo.LeastBytes{},
		RequiredAcks: kafkaGo.RequireAll,
	}
	return &App{writer: writer}
}

// Credit requests a wallet credit for the given user
func (app *App) Credit(ctx context.Context, userID uint64, amount, currency, reference string, lockPeriod model.LockPeriod) (string, error) {
	return app.publish(ctx, Instruction{
		RefID:      xid.New().String(),
		Op:         InstructionOp_Credit,
		UserID:     userID,
		Amount:     amount,
		Currency:   currency,
		LockPeriod: lockPeriod,
		Reference:  reference,
		CreatedAt:  time.Now(),
	})
}

// Debit requests a wallet debit for the given user
func (app *App) Debit(ctx context.Context, userID uint64, amount, currency, reference string) (string, error) {
	return app.publish(ctx, Instruction{
		RefID:     xid.New().String(),
		Op:        InstructionOp_Debit,
		UserID:    userID,
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
		CreatedAt: time.Now(),
	})
}

func (app *App) publish(ctx context.Context, instruction Instruction) (string, error) {
	payload, err := json.Marshal(&instruction)
	if err != nil {
		return "", err
	}
	err = app.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(instruction.RefID),
		Value: payload,
	})
	if err != nil {
		log.Error().Err(err).
			Str("section", "app:wallet").
			Str("action", string(instruction.Op)).
			Str("ref_id", instruction.RefID).
			Uint64("user_id", instruction.UserID).
			Str("amount", instruction.Amount).
			Msg("Unable to publish wallet instruction")
		return "", err
	}
	log.Info().
		Str("section", "app:wallet").
		Str("action", string(instruction.Op)).
		Str("ref_id", instruction.RefID).
		Uint64("user_id", instruction.UserID).
		Str("amount", instruction.Amount).
		Msg("Wallet instruction published")
	return instruction.RefID, nil
}

// Close flushes and closes the underlying writer
func (app *App) Close() error {
	return app.writer.Close()
}
