package holdings

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tokenized/settlement/internal/platform/db"
	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
	sync "github.com/sasha-s/go-deadlock"
)

const storageKey = "contracts"
const storageSubKey = "holdings"

type cacheUpdate struct {
	h    *Holding
	lock sync.Mutex
}

type holdingsCache struct {
	items map[protocol.AssetCode]map[bitcoin.RawAddress]*cacheUpdate
	lock  sync.Mutex
}

func newHoldingsCache() *holdingsCache {
	return &holdingsCache{
		items: make(map[protocol.AssetCode]map[bitcoin.RawAddress]*cacheUpdate),
	}
}

// fetch returns a copy of a single holding from the cache, reading it from storage if it isn't
//   cached yet.
func (l *Ledger) fetch(ctx context.Context, asset protocol.AssetCode,
	address bitcoin.RawAddress) (*Holding, error) {

	l.cache.lock.Lock()
	defer l.cache.lock.Unlock()

	assetHoldings, exists := l.cache.items[asset]
	if !exists {
		assetHoldings = make(map[bitcoin.RawAddress]*cacheUpdate)
		l.cache.items[asset] = assetHoldings
	}

	cu, exists := assetHoldings[address]
	if exists {
		// Copy so the object in cache will not be unintentionally modified (by reference)
		// We don't want it to be modified unless save is called.
		cu.lock.Lock()
		defer cu.lock.Unlock()
		return copyHolding(cu.h), nil
	}

	b, err := l.dbConn.Fetch(ctx, l.buildStoragePath(asset, address))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch holding")
	}

	readResult, err := deserializeHolding(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "Failed to deserialize holding")
	}

	assetHoldings[address] = &cacheUpdate{h: readResult}

	return copyHolding(readResult), nil
}

// save writes a holding to storage and updates the cache.
func (l *Ledger) save(ctx context.Context, asset protocol.AssetCode, h *Holding) error {
	data, err := serializeHolding(h)
	if err != nil {
		return errors.Wrap(err, "Failed to serialize holding")
	}

	if err := l.dbConn.Put(ctx, l.buildStoragePath(asset, h.Address), data); err != nil {
		return errors.Wrap(err, "Failed to write holding")
	}

	l.cache.lock.Lock()
	defer l.cache.lock.Unlock()

	assetHoldings, exists := l.cache.items[asset]
	if !exists {
		assetHoldings = make(map[bitcoin.RawAddress]*cacheUpdate)
		l.cache.items[asset] = assetHoldings
	}

	cu, exists := assetHoldings[h.Address]
	if exists {
		cu.lock.Lock()
		cu.h = copyHolding(h)
		cu.lock.Unlock()
	} else {
		assetHoldings[h.Address] = &cacheUpdate{h: copyHolding(h)}
	}

	return nil
}

// listAddresses returns the addresses with a stored holding of the asset.
func (l *Ledger) listAddresses(ctx context.Context,
	asset protocol.AssetCode) ([]bitcoin.RawAddress, error) {

	path := fmt.Sprintf("%s/%x/%s/%s",
		storageKey,
		l.contract.Bytes(),
		storageSubKey,
		asset.String())

	keys, err := l.dbConn.List(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, "list holdings")
	}

	result := make([]bitcoin.RawAddress, 0, len(keys))
	for _, key := range keys {
		parts := strings.Split(key, "/")
		b, err := hex.DecodeString(parts[len(parts)-1])
		if err != nil {
			return nil, errors.Wrapf(err, "holding key %s", key)
		}

		address, err := bitcoin.NewRawAddress(b)
		if err != nil {
			return nil, errors.Wrapf(err, "holding key %s", key)
		}

		result = append(result, address)
	}

	return result, nil
}

// Reset empties the cache so holdings are reread from storage.
func (l *Ledger) Reset(ctx context.Context) {
	l.cache.lock.Lock()
	defer l.cache.lock.Unlock()

	l.cache.items = make(map[protocol.AssetCode]map[bitcoin.RawAddress]*cacheUpdate)
}

func copyHolding(h *Holding) *Holding {
	result := *h
	return &result
}

// Returns the storage path for a holding.
func (l *Ledger) buildStoragePath(asset protocol.AssetCode, address bitcoin.RawAddress) string {
	return fmt.Sprintf("%s/%x/%s/%s/%x", storageKey, l.contract.Bytes(), storageSubKey,
		asset.String(), address.Bytes())
}

func serializeHolding(h *Holding) ([]byte, error) {
	var buf bytes.Buffer

	// Version
	if err := binary.Write(&buf, binary.LittleEndian, uint8(0)); err != nil {
		return nil, err
	}

	if err := h.Address.Serialize(&buf); err != nil {
		return nil, err
	}

	if err := h.Balance.Serialize(&buf); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.LittleEndian, h.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, h.UpdatedAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func deserializeHolding(buf *bytes.Reader) (*Holding, error) {
	var result Holding

	// Version
	var version uint8
	if err := binary.Read(buf, binary.LittleEndian, &version); err != nil {
		return &result, err
	}
	if version != 0 {
		return &result, fmt.Errorf("Unknown version : %d", version)
	}

	if err := result.Address.Deserialize(buf); err != nil {
		return &result, err
	}

	if err := result.Balance.Deserialize(buf); err != nil {
		return &result, err
	}

	if err := binary.Read(buf, binary.LittleEndian, &result.CreatedAt); err != nil {
		return &result, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &result.UpdatedAt); err != nil {
		return &result, err
	}

	return &result, nil
}
