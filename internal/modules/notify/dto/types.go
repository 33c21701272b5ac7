package dto

import "time"

type DispatchInput struct {
	Session string
	Tag     string
}

type DispatchOutput struct {
	Attempted int
	Delivered int
}

type DeliveryInfo struct {
	ID        string
	Session   string
	Tag       string
	Sink      string
	Message   string
	SentAt    time.Time
	Delivered bool
	Error     string
}

type ChannelInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
}

type DoctorResult struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	HandshakeOK     bool
	Error           string
}
