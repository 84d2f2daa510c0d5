package interfaces

import "context"

type NotifierInterface interface {
	Enabled() bool
	Send(ctx context.Context, subject string, html string) error
}
