package client

import (
	"context"
	"fmt"
	"time"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/infrastructure/network/rotation"
	"wallet_dashboard/internal/pkg/metrics"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const metricsSource = "solana_rpc"

// SolanaClient implements port.LedgerClient over Solana JSON-RPC. Every call is
// retried on the next endpoint of the selector when the active one fails.
type SolanaClient struct {
	provider       *solanaClientProvider
	selector       rotation.Selector
	tokenProgram   solana.PublicKey
	rpcCallTimeout time.Duration
	logger         *zap.Logger
}

// parsedTokenAccount is the jsonParsed layout of an SPL token account.
type parsedTokenAccount struct {
	Parsed struct {
		Info struct {
			Mint        string `json:"mint"`
			TokenAmount struct {
				Amount         string `json:"amount"`
				Decimals       uint8  `json:"decimals"`
				UIAmountString string `json:"uiAmountString"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

// NewSolanaClient creates a ledger client using selector for endpoint choice.
func NewSolanaClient(selector rotation.Selector, tokenProgramID string, rpcCallTimeout time.Duration, logger *zap.Logger) (*SolanaClient, error) {
	program, err := solana.PublicKeyFromBase58(tokenProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid token program id %q: %w", tokenProgramID, err)
	}
	if rpcCallTimeout <= 0 {
		rpcCallTimeout = defaultRPCCallTimeout
	}
	named := logger.Named("SolanaClient")
	return &SolanaClient{
		provider:       newSolanaClientProvider(named),
		selector:       selector,
		tokenProgram:   program,
		rpcCallTimeout: rpcCallTimeout,
		logger:         named,
	}, nil
}

// call runs fn against the active endpoint, rotating on failure. rpcCallTimeout bounds the
// whole call, so every endpoint attempt shares one deadline.
func call[T any](ctx context.Context, c *SolanaClient, method string, fn func(ctx context.Context, rpcClient *rpc.Client) (T, error)) (T, error) {
	phaseCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	return rotation.WithRetry(phaseCtx, c.selector, func(ctx context.Context, endpoint string) (T, error) {
		started := time.Now()
		out, err := fn(ctx, c.provider.GetClient(endpoint))
		metrics.ObserveUpstream(metricsSource, method, started, err)
		if err != nil {
			c.logger.Debug("Solana RPC call failed",
				zap.String("method", method),
				zap.String("endpoint", rotation.Redact(endpoint)),
				zap.Error(err))
			return out, fmt.Errorf("%s: %w", method, err)
		}
		return out, nil
	})
}

// GetNativeBalance implements port.LedgerClient.
func (c *SolanaClient) GetNativeBalance(ctx context.Context, wallet entity.WalletAddress) (uint64, error) {
	owner, err := solana.PublicKeyFromBase58(wallet.String())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", entity.ErrInvalidWalletAddress, err)
	}
	return call(ctx, c, "getBalance", func(ctx context.Context, rpcClient *rpc.Client) (uint64, error) {
		out, err := rpcClient.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
		if err != nil {
			return 0, err
		}
		return out.Value, nil
	})
}

// GetTokenAccounts implements port.LedgerClient. Accounts whose parsed data does not
// decode are logged and skipped.
func (c *SolanaClient) GetTokenAccounts(ctx context.Context, wallet entity.WalletAddress) ([]entity.TokenAccount, error) {
	owner, err := solana.PublicKeyFromBase58(wallet.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidWalletAddress, err)
	}
	program := c.tokenProgram

	result, err := call(ctx, c, "getTokenAccountsByOwner", func(ctx context.Context, rpcClient *rpc.Client) (*rpc.GetTokenAccountsResult, error) {
		return rpcClient.GetTokenAccountsByOwner(ctx, owner,
			&rpc.GetTokenAccountsConfig{ProgramId: &program},
			&rpc.GetTokenAccountsOpts{Encoding: solana.EncodingJSONParsed},
		)
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return []entity.TokenAccount{}, nil
	}

	accounts := make([]entity.TokenAccount, 0, len(result.Value))
	for _, keyed := range result.Value {
		if keyed == nil || keyed.Account.Data == nil {
			continue
		}
		var parsed parsedTokenAccount
		if err := json.Unmarshal(keyed.Account.Data.GetRawJSON(), &parsed); err != nil {
			c.logger.Warn("Skipping token account with unparseable data",
				zap.String("account", keyed.Pubkey.String()), zap.Error(err))
			continue
		}
		info := parsed.Parsed.Info
		if info.Mint == "" {
			c.logger.Warn("Skipping token account without mint", zap.String("account", keyed.Pubkey.String()))
			continue
		}
		accounts = append(accounts, entity.TokenAccount{
			Pubkey:         keyed.Pubkey.String(),
			Mint:           info.Mint,
			RawAmount:      info.TokenAmount.Amount,
			Decimals:       info.TokenAmount.Decimals,
			UIAmountString: info.TokenAmount.UIAmountString,
		})
	}
	return accounts, nil
}

// GetSignatures implements port.LedgerClient.
func (c *SolanaClient) GetSignatures(ctx context.Context, wallet entity.WalletAddress, limit int) ([]entity.SignatureInfo, error) {
	owner, err := solana.PublicKeyFromBase58(wallet.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidWalletAddress, err)
	}

	sigs, err := call(ctx, c, "getSignaturesForAddress", func(ctx context.Context, rpcClient *rpc.Client) ([]*rpc.TransactionSignature, error) {
		return rpcClient.GetSignaturesForAddressWithOpts(ctx, owner, &rpc.GetSignaturesForAddressOpts{
			Limit: &limit,
		})
	})
	if err != nil {
		return nil, err
	}

	out := make([]entity.SignatureInfo, 0, len(sigs))
	for _, sig := range sigs {
		if sig == nil {
			continue
		}
		info := entity.SignatureInfo{
			Signature: sig.Signature.String(),
			Slot:      sig.Slot,
			Err:       sig.Err,
		}
		if sig.BlockTime != nil {
			bt := int64(*sig.BlockTime)
			info.BlockTime = &bt
		}
		out = append(out, info)
	}
	return out, nil
}
