package redis

// Config locates the job stream and the consumer's identity within its
// group. ResultsStream receives one message per completed job; leave it
// empty to skip publishing.
type Config struct {
	Addr          string
	Password      string
	Stream        string
	Group         string
	ConsumerName  string
	ResultsStream string
}

func NewConfig(addr, password, stream, group, consumerName string) *Config {
	if consumerName == "" {
		consumerName = "convo-eval-consumer"
	}
	return &Config{
		Addr:          addr,
		Password:      password,
		Stream:        stream,
		Group:         group,
		ConsumerName:  consumerName,
		ResultsStream: stream + "-results",
	}
}
