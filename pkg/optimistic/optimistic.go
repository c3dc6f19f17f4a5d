// Package optimistic implements the apply-tentative, await-confirmation,
// restore-on-failure pattern used for latency-hiding UI mutations such as
// admin role changes.
package optimistic

// Update snapshots the current value, applies the tentative one, then runs
// commit. On failure the snapshot is restored and the error returned; on
// success the confirmed value from commit replaces the tentative one.
func Update[T any](get func() T, set func(T), tentative T, commit func() (T, error)) error {
	snapshot := get()
	set(tentative)

	confirmed, err := commit()
	if err != nil {
		set(snapshot)
		return err
	}
	set(confirmed)
	return nil
}
