package walletloader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
)

// WalletFileLoader implements the port.WalletProvider interface by loading wallets from a file.
type WalletFileLoader struct {
	filePath string
	logger   port.Logger
}

// NewWalletFileLoader creates a new WalletFileLoader reading filePath.
func NewWalletFileLoader(filePath string, logger port.Logger) *WalletFileLoader {
	return &WalletFileLoader{
		filePath: filePath,
		logger:   logger,
	}
}

// GetWallets reads base58 wallet addresses, one per line. Blank lines and lines starting
// with # are ignored, invalid addresses and duplicates are skipped with a log entry.
func (l *WalletFileLoader) GetWallets() ([]entity.WalletAddress, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", l.filePath, err)
	}
	defer file.Close()

	var wallets []entity.WalletAddress
	seen := make(map[entity.WalletAddress]struct{})
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		wallet, err := entity.ParseWalletAddress(line)
		if err != nil {
			l.logger.Warn("Skipping invalid wallet address", "file", l.filePath, "line_number", lineNum, "address", line)
			continue
		}
		if _, dup := seen[wallet]; dup {
			l.logger.Debug("Skipping duplicate wallet address", "file", l.filePath, "line_number", lineNum, "address", line)
			continue
		}
		seen[wallet] = struct{}{}
		wallets = append(wallets, wallet)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", l.filePath, err)
	}

	l.logger.Info("Wallets loaded successfully from file", "count", len(wallets), "path", l.filePath)
	return wallets, nil
}
