// SPDX-License-Identifier: BSD-3-Clause

// Package operator provides a service orchestrator that manages and supervises
// the dongle's services in a fault-tolerant manner. It acts as the central
// coordinator for the bridge's subsystems, handling service lifecycle management,
// inter-process communication setup, and providing a supervision tree for
// automatic service recovery.
//
// The operator service is the main entry point for the firmware and is
// responsible for starting, monitoring, and coordinating every other service.
// It implements a robust supervision strategy that automatically restarts
// failed services and maintains system stability even when a single actor
// (say, the BLE central) wedges.
//
// # Core Features
//
//   - Service lifecycle management and orchestration
//   - Fault-tolerant supervision with automatic restart policies
//   - Inter-process communication coordination via NATS
//   - Configurable service selection and ordering
//   - System initialization and mount point management
//   - OpenTelemetry integration for observability
//   - Graceful shutdown handling
//
// # Architecture
//
// The operator follows a supervision tree pattern where services are organized
// in a hierarchical structure with well-defined restart policies. The operator
// itself acts as the root supervisor, managing child services and handling
// their failures according to configured strategies.
//
// The supervision tree includes:
//   - IPC service (highest priority, started first)
//   - The connection coordinator, report forwarder, and power manager
//   - The front-panel UI
//   - Additional custom services
//
// # Service Management
//
// The operator manages the dongle's services:
//
//   - IPC: Inter-process communication service (embedded NATS server)
//   - Coordinator: BLE scan/connect/disconnect lifecycle (C7)
//   - Forwarder: HID report relay from the radio path to the USB gadget (C8)
//   - Powermgr: suspend/activity tracking and display blanking (C9)
//   - UI: front-panel button and screen state machine (C10)
//   - Telemetry: metrics collection and observability
//
// # Configuration
//
// The operator supports extensive configuration through the options pattern.
// Services can be selectively enabled, disabled, or customized:
//
//	op := operator.New(
//		operator.WithName("bt2usb"),
//		operator.WithTimeout(30*time.Second),
//		operator.WithIPC(
//			ipc.WithServerName("bt2usb-ipc"),
//		),
//		operator.WithTelemetry(
//			telemetry.WithMetricsEnabled(true),
//		),
//		operator.WithExtraServices(myCustomService),
//	)
//
// # Supervision and Fault Tolerance
//
// The operator implements a robust supervision strategy:
//
//   - Transient restart policy: Services are restarted on failure
//   - Configurable timeouts for service startup and shutdown
//   - Isolation: Service failures don't affect other services
//   - Graceful degradation: System continues with reduced functionality
//   - Logging and monitoring of all service state changes
//
// # Inter-Process Communication
//
// The operator coordinates IPC setup for all services:
//
//   - Starts the IPC service first to provide communication infrastructure
//   - Provides connection providers to all other services
//   - Handles IPC service failures and recovery
//   - Supports both embedded and external IPC configurations
//
// # System Initialization
//
// The operator handles various system initialization tasks:
//
//   - Mount point setup for pseudo-filesystems
//   - OpenTelemetry configuration and setup
//   - Persistent ID generation and management
//   - Logo display and branding
//   - Global logger configuration
//
// # Usage Patterns
//
// ## Basic Usage
//
// None of the bridge services are started by default, since each needs a
// hardware-specific collaborator (a BLE central, a USB gadget, a button
// source, a renderer) that only the caller can supply:
//
//	op := operator.New(
//		operator.WithCoordinator(coordinator.WithCentral(central), coordinator.WithBondStore(store)),
//		operator.WithForwarder(forwarder.WithGadget(gadget)),
//		operator.WithPowermgr(powermgr.WithSuspendSource(src)),
//		operator.WithUI(ui.WithRenderer(renderer), ui.WithButtons(buttons)),
//	)
//	err := op.Run(ctx, nil)
//
// ## External IPC Integration
//
// When integrating with external IPC infrastructure:
//
//	// Use external IPC connection
//	err := op.Run(ctx, externalIPCConn)
//
// ## Adding Custom Services
//
// Custom services can be added to the supervision tree:
//
//	myService := &MyCustomService{}
//	op := operator.New(
//		operator.WithExtraServices(myService),
//	)
//
// # Error Handling
//
// The operator provides comprehensive error handling:
//
//   - Configuration validation before startup
//   - Graceful handling of service startup failures
//   - Detailed error reporting with context
//   - Automatic recovery from transient failures
//   - Clean shutdown on fatal errors
//
// # Observability
//
// The operator integrates with OpenTelemetry for observability:
//
//   - Structured logging with correlation IDs
//   - Metrics collection and reporting
//   - Service dependency mapping
//
// # Best Practices
//
// When using the operator:
//
//   - Always provide a context with timeout for Run()
//   - Use structured logging for better observability
//   - Configure appropriate timeouts for your environment
//   - Test service restart scenarios in development
//   - Implement proper signal handling for graceful shutdown
//
// # Example Implementation
//
//	package main
//
//	import (
//		"context"
//		"os"
//		"os/signal"
//		"syscall"
//		"time"
//
//		"github.com/chefzaid/bt2usb/service/coordinator"
//		"github.com/chefzaid/bt2usb/service/forwarder"
//		"github.com/chefzaid/bt2usb/service/ipc"
//		"github.com/chefzaid/bt2usb/service/operator"
//	)
//
//	func main() {
//		op := operator.New(
//			operator.WithName("bt2usb"),
//			operator.WithTimeout(20*time.Second),
//			operator.WithIPC(
//				ipc.WithServerName("bt2usb-ipc"),
//			),
//			operator.WithCoordinator(
//				coordinator.WithCentral(central),
//				coordinator.WithBondStore(store),
//			),
//			operator.WithForwarder(
//				forwarder.WithGadget(gadget),
//			),
//		)
//
//		ctx, cancel := context.WithCancel(context.Background())
//		defer cancel()
//
//		sigChan := make(chan os.Signal, 1)
//		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
//
//		go func() {
//			<-sigChan
//			cancel()
//		}()
//
//		if err := op.Run(ctx, nil); err != nil {
//			if err != context.Canceled {
//				log.Fatal("Operator failed", "error", err)
//			}
//		}
//	}
//
// # Service Dependencies
//
// The operator starts services in two waves:
//
//  1. IPC service starts first (communication infrastructure)
//  2. Every configured bridge service starts concurrently once IPC is up
//
// Services communicate with each other exclusively through the IPC bus;
// the radio-facing report path between the coordinator and the forwarder
// runs over a plain Go channel wired up by the caller, outside of NATS.
package operator
