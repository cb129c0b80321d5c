package checkers

import (
	"context"
	"fmt"
	"time"

	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

// StatusProber is the remote root probe.
type StatusProber interface {
	Status(ctx context.Context) (remote.Status, error)
}

type RemoteChecker struct {
	api StatusProber
}

func NewRemoteChecker(api StatusProber) *RemoteChecker {
	return &RemoteChecker{api: api}
}

func (c *RemoteChecker) Name() string { return "remote" }

func (c *RemoteChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	st, err := c.api.Status(ctx)
	if err != nil {
		return err
	}
	if st.Status != "" && st.Status != "running" && st.Status != "ok" {
		return fmt.Errorf("remote status %q", st.Status)
	}
	return nil
}
