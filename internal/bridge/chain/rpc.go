package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	rpcPollAttempts = 120
	rpcPollInterval = time.Second
)

// WaitForRPC polls the node until it answers eth_blockNumber
func WaitForRPC(ctx context.Context, url string) error {
	for range rpcPollAttempts {
		if rpcReady(ctx, url) {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to wait for RPC at %s: %w", url, ctx.Err())
		case <-time.After(rpcPollInterval):
		}
	}

	return fmt.Errorf("timed out waiting for RPC at %s", url)
}

func rpcReady(ctx context.Context, url string) bool {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return false
	}
	defer client.Close()

	_, err = client.BlockNumber(ctx)
	return err == nil
}
