package explainer

import (
	"context"
	"time"
)

// begin reserves a queue slot and then an in-flight slot for one describe
// request. Returns a release func to be deferred.
func (e *Explainer) begin(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(e.cfg.MaxWait)
	defer timer.Stop()
	select {
	case e.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-e.queueCh
		}
	}()
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	timer2 := time.NewTimer(e.cfg.MaxWait)
	defer timer2.Stop()
	select {
	case e.genCh <- struct{}{}:
		acquired = true
		return func() { <-e.genCh; <-e.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, tooBusyError{}
	}
}
