package types

import "testing"

func TestMapStatus(t *testing.T) {
	tests := []struct {
		in   string
		want OrderStatus
		ok   bool
	}{
		{"accepted", StatusAccepted, true},
		{"order_accepted", StatusAccepted, true},
		{"driver_assigned", StatusAccepted, true},
		{"assigning_driver", StatusOutForDelivery, true},
		{"ongoing", StatusOutForDelivery, true},
		{"picked_up", StatusPickedUp, true},
		{"order_picked_up", StatusPickedUp, true},
		{"driver_picked_up", StatusPickedUp, true},
		{"completed", StatusDelivered, true},
		{"delivered", StatusDelivered, true},
		{"DELIVERED", StatusDelivered, true},
		{"Delivered", StatusDelivered, true},
		{"canceled", StatusCanceled, true},
		{"cancelled", StatusCanceled, true},
		{"order_cancelled", StatusCanceled, true},
		{" ongoing ", StatusOutForDelivery, true},
		{"foo", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := MapStatus(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("MapStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from, to OrderStatus
		want     bool
	}{
		{"pending to accepted", StatusPending, StatusAccepted, true},
		{"accepted to out_for_delivery", StatusAccepted, StatusOutForDelivery, true},
		{"out_for_delivery to picked_up", StatusOutForDelivery, StatusPickedUp, true},
		{"picked_up to delivered", StatusPickedUp, StatusDelivered, true},
		{"same state is a no-op", StatusAccepted, StatusAccepted, false},
		{"delivered is terminal", StatusDelivered, StatusCanceled, false},
		{"canceled is terminal", StatusCanceled, StatusAccepted, false},
		{"canceled reachable from pending", StatusPending, StatusCanceled, true},
		{"canceled reachable from picked_up", StatusPickedUp, StatusCanceled, true},
		{"out of order webhook still applies", StatusPickedUp, StatusAccepted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusAccepted, StatusOutForDelivery, StatusPickedUp} {
		if s.Terminal() {
			t.Fatalf("%q must not be terminal", s)
		}
	}
	for _, s := range []OrderStatus{StatusDelivered, StatusCanceled} {
		if !s.Terminal() {
			t.Fatalf("%q must be terminal", s)
		}
	}
}

func TestTimestampColumn(t *testing.T) {
	if col := StatusAccepted.TimestampColumn(); col != "accepted" {
		t.Fatalf("unexpected column %q", col)
	}

	if col := OrderStatus("handover").TimestampColumn(); col != "" {
		t.Fatalf("unknown status must map to no column, got %q", col)
	}
}
