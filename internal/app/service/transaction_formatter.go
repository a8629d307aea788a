package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultStatus        = "Success"
	unknownSymbol        = "Unknown"
	nativeTransferSource = "SYSTEM_PROGRAM"
	tokenTransferSource  = "SOLANA_PROGRAM_LIBRARY"
	defaultNFTDesc       = "NFT Transaction"
)

// transactionFormatterImpl implements port.TransactionFormatter.
type transactionFormatterImpl struct{}

// NewTransactionFormatter creates a new transaction formatter.
func NewTransactionFormatter() port.TransactionFormatter {
	return transactionFormatterImpl{}
}

// Format implements port.TransactionFormatter. Kinds are checked in the order native
// transfer, token transfer, NFT event, swap event and only the first sub-event of the
// matching kind is used. A record matching none keeps the base fields.
func (transactionFormatterImpl) Format(tx entity.EnhancedTransaction, wallet entity.WalletAddress) (entity.FormattedTransaction, error) {
	out, err := baseFields(tx)
	if err != nil {
		return entity.FormattedTransaction{}, err
	}
	address := wallet.String()

	switch {
	case len(tx.NativeTransfers) > 0:
		err = formatNativeTransfer(&out, tx.NativeTransfers[0], address)
	case len(tx.TokenTransfers) > 0:
		err = formatTokenTransfer(&out, tx.TokenTransfers[0], address)
	case tx.Events.NFT != nil:
		err = formatNFTEvent(&out, tx.Events.NFT, address)
	case tx.Events.Swap != nil:
		err = formatSwapEvent(&out, tx.Events.Swap)
	}
	if err != nil {
		return entity.FormattedTransaction{}, fmt.Errorf("failed to format transaction %s: %w", tx.Signature, err)
	}
	return out, nil
}

func baseFields(tx entity.EnhancedTransaction) (entity.FormattedTransaction, error) {
	out := entity.FormattedTransaction{
		Signature:   tx.Signature,
		Type:        orDefault(tx.Type, entity.TxTypeUnknown),
		Description: tx.Description,
		BlockTime:   tx.Timestamp,
		Status:      orDefault(tx.Status, defaultStatus),
		Program:     orDefault(tx.Source, entity.TxTypeUnknown),
		Direction:   entity.DirectionUnknown,
	}
	if tx.Fee != nil && tx.Fee.IsSet() {
		lamports, err := tx.Fee.Float64()
		if err != nil {
			return out, fmt.Errorf("failed to parse fee of %s: %w", tx.Signature, err)
		}
		fee := lamports / 1e9
		out.Fee = &fee
	}
	if tx.TransactionError != nil {
		msg := errorString(tx.TransactionError)
		out.Error = &msg
	}
	return out, nil
}

func formatNativeTransfer(out *entity.FormattedTransaction, t entity.NativeTransfer, wallet string) error {
	lamports, err := t.Amount.Float64()
	if err != nil {
		return fmt.Errorf("native transfer amount: %w", err)
	}
	amount := lamports / 1e9
	decimals := entity.NativeDecimals

	out.Type = entity.TxTypeTransfer
	out.Source = strPtr(nativeTransferSource)
	out.From = strPtr(t.FromUserAccount)
	out.To = strPtr(t.ToUserAccount)
	out.Amount = &amount
	out.TokenType = entity.NativeAssetID
	out.Decimals = &decimals
	out.Direction = direction(wallet, t.FromUserAccount, t.ToUserAccount)

	switch out.Direction {
	case entity.DirectionOut:
		out.Description = fmt.Sprintf("Sent %.4f SOL", amount)
	case entity.DirectionIn:
		out.Description = fmt.Sprintf("Received %.4f SOL", amount)
	default:
		out.Description = fmt.Sprintf("Transferred %.4f SOL", amount)
	}
	return nil
}

func formatTokenTransfer(out *entity.FormattedTransaction, t entity.TokenTransfer, wallet string) error {
	amount, err := t.TokenAmount.Float64()
	if err != nil {
		return fmt.Errorf("token transfer amount: %w", err)
	}
	symbol := unknownSymbol
	if t.Symbol != nil && *t.Symbol != "" {
		symbol = *t.Symbol
	}

	out.Type = entity.TxTypeTokenTransfer
	out.Source = strPtr(tokenTransferSource)
	out.From = strPtr(t.FromUserAccount)
	out.To = strPtr(t.ToUserAccount)
	out.Amount = &amount
	out.TokenSymbol = symbol
	out.Mint = strPtr(t.Mint)
	out.Decimals = t.Decimals
	out.Direction = direction(wallet, t.FromUserAccount, t.ToUserAccount)

	shown := formatAmount(amount)
	switch out.Direction {
	case entity.DirectionOut:
		out.Description = fmt.Sprintf("Sent %s %s", shown, symbol)
	case entity.DirectionIn:
		out.Description = fmt.Sprintf("Received %s %s", shown, symbol)
	default:
		out.Description = fmt.Sprintf("Transferred %s %s", shown, symbol)
	}
	return nil
}

func formatNFTEvent(out *entity.FormattedTransaction, nft *entity.NFTEvent, wallet string) error {
	out.Type = strings.ToUpper(orDefault(nft.Type, entity.TxTypeNFT))
	out.Source = strPtr(entity.TxTypeUnknown)
	if nft.Source != nil && *nft.Source != "" {
		out.Source = strPtr(*nft.Source)
	}
	out.Description = defaultNFTDesc
	if nft.Description != nil && *nft.Description != "" {
		out.Description = *nft.Description
	}

	from := nft.Seller
	if from == "" {
		from = nft.Authority
	}
	if from != "" {
		out.From = strPtr(from)
	}
	if nft.Buyer != "" {
		out.To = strPtr(nft.Buyer)
	}
	if nft.Amount != nil && nft.Amount.IsSet() {
		lamports, err := nft.Amount.Float64()
		if err != nil {
			return fmt.Errorf("nft amount: %w", err)
		}
		amount := lamports / 1e9
		out.Amount = &amount
	}
	out.Collection = nft.Collection
	out.Name = nft.Name
	out.Image = nft.Image
	out.Marketplace = nft.Source
	out.Direction = direction(wallet, from, nft.Buyer)
	return nil
}

func formatSwapEvent(out *entity.FormattedTransaction, swap *entity.SwapEvent) error {
	input, err := swapLeg(swap.NativeInput, swap.TokenInputs)
	if err != nil {
		return fmt.Errorf("swap input: %w", err)
	}
	output, err := swapLeg(swap.NativeOutput, swap.TokenOutputs)
	if err != nil {
		return fmt.Errorf("swap output: %w", err)
	}

	in, outLeg := legOrEmpty(input), legOrEmpty(output)
	desc := fmt.Sprintf("Swap: %.4f %s → %.4f %s", in.Amount, in.Token, outLeg.Amount, outLeg.Token)
	if inUSD, outUSD := usdOrZero(in.ValueUSD), usdOrZero(outLeg.ValueUSD); inUSD != 0 && outUSD != 0 {
		desc += fmt.Sprintf(" ($%.2f → $%.2f)", inUSD, outUSD)
	}

	out.Type = entity.TxTypeSwap
	out.Description = desc
	out.Direction = entity.DirectionSwap
	out.Source = strPtr(entity.TxTypeUnknown)
	if swap.Source != nil && *swap.Source != "" {
		out.Source = strPtr(*swap.Source)
	}
	out.Dex = swap.Source
	out.Input = input
	out.Output = output
	out.PriceImpact = swap.PriceImpact
	return nil
}

// swapLeg prefers the native leg over the first token leg. A nil result means the swap
// has no leg on that side.
func swapLeg(native *entity.NativeSwapLeg, tokens []entity.TokenSwapLeg) (*entity.SwapLeg, error) {
	if native != nil {
		lamports, err := native.Amount.Float64()
		if err != nil {
			return nil, err
		}
		usd, err := optionalFloat(native.USDValue)
		if err != nil {
			return nil, err
		}
		return &entity.SwapLeg{Amount: lamports / 1e9, Token: entity.NativeAssetID, ValueUSD: usd}, nil
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	leg := tokens[0]
	amount, err := leg.Amount.Float64()
	if err != nil {
		return nil, err
	}
	usd, err := optionalFloat(leg.USDValue)
	if err != nil {
		return nil, err
	}
	symbol := unknownSymbol
	if leg.Symbol != nil && *leg.Symbol != "" {
		symbol = *leg.Symbol
	}
	return &entity.SwapLeg{Amount: amount, Token: symbol, ValueUSD: usd}, nil
}

func legOrEmpty(leg *entity.SwapLeg) entity.SwapLeg {
	if leg == nil {
		return entity.SwapLeg{Token: unknownSymbol}
	}
	return *leg
}

func usdOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func optionalFloat(n entity.FlexNumber) (*float64, error) {
	if !n.IsSet() {
		return nil, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func direction(wallet, from, to string) string {
	switch wallet {
	case from:
		return entity.DirectionOut
	case to:
		return entity.DirectionIn
	default:
		return entity.DirectionUnknown
	}
}

// formatAmount renders a token amount the shortest way that round-trips, keeping a
// trailing ".0" on whole numbers and exponent notation for very small or large values.
func formatAmount(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func errorString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func strPtr(s string) *string {
	return &s
}
