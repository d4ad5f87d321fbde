// SPDX-License-Identifier: GPL-3.0-or-later
package mailconnection

// lastUids keeps the last limit entries in server-return order.
func lastUids(uids []uint32, limit int) []uint32 {
	if limit <= 0 || len(uids) <= limit {
		return uids
	}
	return uids[len(uids)-limit:]
}

// hybridUids combines the unread and read result sets of the default
// strategy: unread first, then the tail of the read set. Read messages are
// capped at limit/2 and never evict unread ones, so the cheaper read scan
// only fills capacity the unread scan left over.
func hybridUids(unread, read []uint32, limit int) []uint32 {
	combined := make([]uint32, 0, limit)
	combined = append(combined, lastUids(unread, limit)...)

	readCap := limit / 2
	if room := limit - len(combined); room < readCap {
		readCap = room
	}
	if readCap <= 0 {
		return combined
	}

	return append(combined, lastUids(read, readCap)...)
}
