package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// contractABI covers only the view functions the engine reads back.
const contractABI = `[
  {"type":"function","name":"gameCounter","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getGame","stateMutability":"view","inputs":[{"name":"gameId","type":"uint256"}],"outputs":[
    {"name":"entryFee","type":"uint256"},{"name":"maxPlayers","type":"uint8"},{"name":"status","type":"uint8"},
    {"name":"currentRound","type":"uint8"},{"name":"playersCount","type":"uint8"},{"name":"pool","type":"uint256"}]},
  {"type":"function","name":"getPlayerStats","stateMutability":"view","inputs":[{"name":"player","type":"address"}],"outputs":[
    {"name":"gamesPlayed","type":"uint256"},{"name":"gamesWon","type":"uint256"}]},
  {"type":"function","name":"medalsOf","stateMutability":"view","inputs":[{"name":"player","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

// EthReader reads the tournament contract over JSON-RPC. Every error
// is wrapped as ErrUnavailable so callers can degrade uniformly.
type EthReader struct {
	client   *ethclient.Client
	abi      abi.ABI
	contract common.Address
}

func Dial(ctx context.Context, rpcURL, contractAddr string) (*EthReader, error) {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	return &EthReader{
		client:   client,
		abi:      parsed,
		contract: common.HexToAddress(contractAddr),
	}, nil
}

func (r *EthReader) Close() {
	r.client.Close()
}

func (r *EthReader) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %v", ErrUnavailable, method, err)
	}
	raw, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: call %s: %v", ErrUnavailable, method, err)
	}
	out, err := r.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %v", ErrUnavailable, method, err)
	}
	return out, nil
}

func (r *EthReader) LatestGameID(ctx context.Context) (uint64, error) {
	out, err := r.call(ctx, "gameCounter")
	if err != nil {
		return 0, err
	}
	counter := asBig(out[0])
	if counter.Sign() == 0 {
		return 0, fmt.Errorf("%w: no games on chain", ErrUnavailable)
	}
	return counter.Uint64() - 1, nil
}

func (r *EthReader) GameSnapshot(ctx context.Context, id uint64) (GameView, error) {
	out, err := r.call(ctx, "getGame", new(big.Int).SetUint64(id))
	if err != nil {
		return GameView{}, err
	}
	return GameView{
		ID:           id,
		EntryFee:     asBig(out[0]).Int64(),
		MaxPlayers:   int(out[1].(uint8)),
		Status:       out[2].(uint8),
		CurrentRound: out[3].(uint8),
		PlayersCount: int(out[4].(uint8)),
		Pool:         asBig(out[5]).Int64(),
	}, nil
}

func (r *EthReader) PlayerStats(ctx context.Context, addr string) (PlayerView, error) {
	out, err := r.call(ctx, "getPlayerStats", common.HexToAddress(addr))
	if err != nil {
		return PlayerView{}, err
	}
	return PlayerView{
		GamesPlayed: asBig(out[0]).Int64(),
		GamesWon:    asBig(out[1]).Int64(),
	}, nil
}

func (r *EthReader) MedalBalance(ctx context.Context, addr string) (int64, error) {
	out, err := r.call(ctx, "medalsOf", common.HexToAddress(addr))
	if err != nil {
		return 0, err
	}
	return asBig(out[0]).Int64(), nil
}

func asBig(v any) *big.Int {
	if b, ok := v.(*big.Int); ok {
		return b
	}
	return new(big.Int)
}
