package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"capturewatch/internal/daemon"
	"capturewatch/internal/logging"
	"capturewatch/internal/logs"
	"capturewatch/internal/watchdog"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Capturewatch", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun capturewatch stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func settingsToWire(settings watchdog.Settings) WatchdogSettings {
	return WatchdogSettings{
		VideoTimestampCheck:    settings.VideoTimestampCheck,
		AudioTimestampCheck:    settings.AudioTimestampCheck,
		SourceActivityCheck:    settings.SourceActivityCheck,
		InactivityGraceSeconds: int(settings.InactivityGrace / time.Second),
	}
}

func settingsFromWire(wire WatchdogSettings) watchdog.Settings {
	return watchdog.Settings{
		VideoTimestampCheck: wire.VideoTimestampCheck,
		AudioTimestampCheck: wire.AudioTimestampCheck,
		SourceActivityCheck: wire.SourceActivityCheck,
		InactivityGrace:     time.Duration(wire.InactivityGraceSeconds) * time.Second,
	}
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	s.log().Info("daemon started via IPC",
		logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	resp.Running = status.Running
	resp.MonitorRunning = status.MonitorRunning
	resp.FilterEnabled = status.FilterEnabled
	resp.SourceActive = status.SourceActive
	resp.DeviceMonitor = status.DeviceMonitor
	resp.HasVideo = status.Snapshot.HasVideo
	resp.VideoTimestamp = status.Snapshot.VideoTimestamp
	resp.HasAudio = status.Snapshot.HasAudio
	resp.AudioTimestamp = status.Snapshot.AudioTimestamp
	resp.Settings = settingsToWire(status.Settings)
	resp.LockPath = status.LockPath
	resp.PID = os.Getpid()
	return nil
}

func (s *service) TestAlert(_ TestAlertRequest, resp *TestAlertResponse) error {
	s.log().Debug("test alert requested")
	if err := s.daemon.TestAlert(s.ctx); err != nil {
		resp.Played = false
		resp.Message = err.Error()
		return nil
	}
	resp.Played = true
	resp.Message = "alert sound played"
	s.log().Info("alert sound played via IPC",
		logging.String(logging.FieldEventType, "test_alert"))
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}

func (s *service) Settings(_ SettingsRequest, resp *SettingsResponse) error {
	resp.Settings = settingsToWire(s.daemon.Status().Settings)
	return nil
}

func (s *service) ApplySettings(req ApplySettingsRequest, resp *ApplySettingsResponse) error {
	if grace := req.Settings.InactivityGraceSeconds; grace < 1 || grace > 3600 {
		return fmt.Errorf("inactivity grace must be between 1 and 3600 seconds, got %d", grace)
	}
	s.daemon.ApplySettings(settingsFromWire(req.Settings))
	resp.Applied = true
	s.log().Info("watchdog settings applied via IPC",
		logging.String(logging.FieldEventType, "settings_applied"))
	return nil
}
