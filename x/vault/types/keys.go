package types

// KVStore key prefixes
var (
	PoolKeyPrefix        = []byte{0x01}
	ShareKeyPrefix       = []byte{0x02}
	AllowanceKeyPrefix   = []byte{0x03}
	FeesKeyPrefix        = []byte{0x04}
	CheckpointKeyPrefix  = []byte{0x05}
	RequestKeyPrefix     = []byte{0x06}
	AggregateKeyPrefix   = []byte{0x07}
	FlashKeyPrefix       = []byte{0x08}
	ExemptionKeyPrefix   = []byte{0x09}
	PriceHistoryPrefix   = []byte{0x0A}
	OperationLockPrefix  = []byte{0x0B}
	PoolCountKey         = []byte{0x0C}
)

// PoolKey returns the store key for a pool record.
func PoolKey(poolID string) []byte {
	return append(PoolKeyPrefix, []byte(poolID)...)
}

// ShareKey returns the store key for an owner's share balance in a pool.
func ShareKey(poolID, owner string) []byte {
	key := append(ShareKeyPrefix, []byte(poolID)...)
	key = append(key, '/')
	return append(key, []byte(owner)...)
}

// AllowanceKey returns the store key for a (owner, spender) share allowance.
func AllowanceKey(poolID, owner, spender string) []byte {
	key := append(AllowanceKeyPrefix, []byte(poolID)...)
	key = append(key, '/')
	key = append(key, []byte(owner)...)
	key = append(key, '/')
	return append(key, []byte(spender)...)
}

// FeesKey returns the store key for a pool's fee schedule.
func FeesKey(poolID string) []byte {
	return append(FeesKeyPrefix, []byte(poolID)...)
}

// CheckpointKey returns the store key for a pool's accounting checkpoint.
func CheckpointKey(poolID string) []byte {
	return append(CheckpointKeyPrefix, []byte(poolID)...)
}

// RequestKey returns the store key for an owner's redemption request.
func RequestKey(poolID, owner string) []byte {
	key := append(RequestKeyPrefix, []byte(poolID)...)
	key = append(key, '/')
	return append(key, []byte(owner)...)
}

// RequestIterKey returns the iteration prefix for a pool's requests.
func RequestIterKey(poolID string) []byte {
	key := append(RequestKeyPrefix, []byte(poolID)...)
	return append(key, '/')
}

// AggregateKey returns the store key for a pool's queue aggregate.
func AggregateKey(poolID string) []byte {
	return append(AggregateKeyPrefix, []byte(poolID)...)
}

// FlashKey returns the store key for a pool's flash facility state.
func FlashKey(poolID string) []byte {
	return append(FlashKeyPrefix, []byte(poolID)...)
}

// ExemptionKey returns the store key for a fee exemption flag.
func ExemptionKey(poolID, addr string) []byte {
	key := append(ExemptionKeyPrefix, []byte(poolID)...)
	key = append(key, '/')
	return append(key, []byte(addr)...)
}

// PriceHistoryKey returns the store key for a price sample at a timestamp.
func PriceHistoryKey(poolID string, timestamp int64) []byte {
	key := append(PriceHistoryPrefix, []byte(poolID)...)
	key = append(key, '/')
	ts := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		ts[i] = byte(timestamp)
		timestamp >>= 8
	}
	return append(key, ts...)
}

// OperationLockKey returns the store key for a pool's re-entrancy lock.
func OperationLockKey(poolID string) []byte {
	return append(OperationLockPrefix, []byte(poolID)...)
}
