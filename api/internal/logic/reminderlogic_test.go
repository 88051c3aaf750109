package logic

import (
	"context"
	"testing"
)

func TestSendDaily(t *testing.T) {
	svcCtx, msgr := newTestContext(t)
	startUser(t, svcCtx, 100)
	startUser(t, svcCtx, 200)
	msgr.reset()

	sent, err := NewReminderLogic(context.Background(), svcCtx).SendDaily()
	if err != nil {
		t.Fatalf("send daily: %v", err)
	}
	if sent != 2 || len(msgr.texts) != 2 {
		t.Fatalf("expected 2 reminders, sent %d, messages %d", sent, len(msgr.texts))
	}
	for _, m := range msgr.texts {
		if m.text != reminderText {
			t.Fatalf("unexpected reminder %q", m.text)
		}
	}
}

func TestSendMonthlyReports(t *testing.T) {
	svcCtx, msgr := newTestContext(t)
	alice := startUser(t, svcCtx, 100)
	startUser(t, svcCtx, 200)
	seedMay(t, svcCtx, alice)
	msgr.reset()

	sent, err := NewReminderLogic(context.Background(), svcCtx).SendMonthlyReports()
	if err != nil {
		t.Fatalf("send monthly: %v", err)
	}
	if sent != 2 || len(msgr.photos) != 8 {
		t.Fatalf("expected 2 reports with 8 images, sent %d, images %d", sent, len(msgr.photos))
	}

	snaps, err := svcCtx.MonthlySnapshotModel.FindByUser(context.Background(), alice)
	if err != nil || len(snaps) != 1 || snaps[0].YearMonth != "2025-05" {
		t.Fatalf("unexpected snapshots %+v, err %v", snaps, err)
	}
}
