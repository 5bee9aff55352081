package blob

// FromBytesForWidth builds the cheapest Blobber representation for a
// digest of the given bit width, dispatching once into one of the
// small closed set of monomorphic instantiations the analyzers are
// generic over: native Blob32/Blob64 words for 32- and 64-bit HUTs,
// the general byte-slice Blob otherwise.
func FromBytesForWidth(bits int, data []byte) Blobber {
	switch bits {
	case 32:
		return FromUint32(uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24)
	case 64:
		var v uint64
		for i := 0; i < 8; i++ {
			v |= uint64(data[i]) << uint(8*i)
		}
		return FromUint64Native(v)
	default:
		return FromBytes(data)
	}
}
