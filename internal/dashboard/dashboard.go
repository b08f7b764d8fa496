package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Dashboard groups the widgets of one signed-in screen. Either widget may
// be nil. Each widget owns its failures: one failing never blanks the other.
type Dashboard struct {
	Recalls       *RecallPanel
	Notifications *Session
}

type DashboardView struct {
	Recalls       *RecallView
	Notifications *View
}

// Start loads every widget concurrently and returns once all of them have
// settled. It never fails; errors live in each widget's view.
func (d *Dashboard) Start(ctx context.Context) {
	var g errgroup.Group

	if d.Recalls != nil {
		g.Go(func() error {
			_ = d.Recalls.Load(ctx)
			return nil
		})
	}
	if d.Notifications != nil {
		g.Go(func() error {
			d.Notifications.Start(ctx)
			return nil
		})
	}

	_ = g.Wait()
}

func (d *Dashboard) View() DashboardView {
	var v DashboardView
	if d.Recalls != nil {
		rv := d.Recalls.View()
		v.Recalls = &rv
	}
	if d.Notifications != nil {
		nv := d.Notifications.View()
		v.Notifications = &nv
	}
	return v
}

// Close tears down every widget; late results are discarded.
func (d *Dashboard) Close() {
	if d.Notifications != nil {
		d.Notifications.Close()
	}
	if d.Recalls != nil {
		d.Recalls.Close()
	}
}
