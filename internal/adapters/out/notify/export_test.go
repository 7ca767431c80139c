package notify

// DropChannel closes the sink's channel while leaving the connection up, the
// state a channel-level exception from the broker leaves behind.
func (s *RabbitSink) DropChannel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chn.Close()
}

// DropConnection closes the sink's connection.
func (s *RabbitSink) DropConnection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
