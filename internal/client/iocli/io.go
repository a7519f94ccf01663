package iocli

// IO ввод/вывод CLI. Позволяет подменять терминал в тестах.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	// Success печатает сообщение об успешной операции (зелёным на терминале)
	Success(format string, a ...any)
	// Warn печатает предупреждение (жёлтым на терминале)
	Warn(format string, a ...any)
	ReadInput(prompt string) (string, error)
	// ReadSecret читает значение без эха, если ввод идёт с терминала
	ReadSecret(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}
