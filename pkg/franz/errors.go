package franz

import "errors"

var (
	ErrNoMessages   = errors.New("no messages available")
	ErrNoRegistry   = errors.New("registry undefined")
	ErrNoBrokers    = errors.New("no brokers specified")
	ErrNoLeader     = errors.New("partition has no leader")
	ErrUnknownTopic = errors.New("unknown topic")
)
