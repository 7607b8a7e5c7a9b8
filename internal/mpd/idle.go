package mpd

// SubsystemCounters is one session's last-seen per-subsystem counts,
// used by the idle rendezvous to compute which wanted subsystems changed
// since this session last observed state.
type SubsystemCounters [NumSubsystems]uint64

// IdleState is the per-session bookkeeping the idle rendezvous needs:
// the last global version this session was told about, and its
// per-subsystem counters.
type IdleState struct {
	LastVersion uint64
	Counts      SubsystemCounters
}

// Diff computes, for each wanted subsystem (or every subsystem if wanted
// is empty), whether its counter has advanced past this session's
// last-seen value. Subsystems that changed are returned and the
// session's counters for them are advanced to the current value. The
// session's last-seen version is always updated to the cache's current
// version.
func (st *IdleState) Diff(cache *StateCache, wanted []Subsystem) []Subsystem {
	targets := wanted
	if len(targets) == 0 {
		targets = AllSubsystems()
	}

	var changed []Subsystem
	for _, s := range targets {
		cur := cache.Count(s)
		if cur > st.Counts[s] {
			changed = append(changed, s)
			st.Counts[s] = cur
		}
	}
	st.LastVersion = cache.Version()
	return changed
}

// Pending reports whether the session's last-seen version already lags
// the cache's current version, letting the caller skip the wait entirely
// when there is already unseen state.
func (st *IdleState) Pending(cache *StateCache) bool {
	return cache.Version() != st.LastVersion
}
