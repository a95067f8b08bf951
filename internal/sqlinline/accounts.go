package sqlinline

const QSelectAccountByID = `--sql 7419304b-0e2b-4e79-86e4-d30d91ca5155
select
    clerk_user_id,
    email,
    coalesce(display_name, '') as display_name,
    plan,
    designs_used,
    designs_limit,
    subscription_status,
    subscription_start_date,
    created_at,
    updated_at
from users
where clerk_user_id = $1::text
limit 1;
`

const QInsertAccount = `--sql 91e856fb-f441-4edd-a6ff-197e8379a703
insert into users (id, clerk_user_id, email, display_name, plan, designs_used, designs_limit, subscription_status, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, nullif($3::text, ''), $4::text, $5::int, $6::int, $7::text, now(), now())
on conflict (clerk_user_id) do update set
    email = excluded.email,
    display_name = coalesce(excluded.display_name, users.display_name),
    updated_at = now()
returning
    clerk_user_id,
    email,
    coalesce(display_name, '') as display_name,
    plan,
    designs_used,
    designs_limit,
    subscription_status,
    subscription_start_date,
    created_at,
    updated_at;
`

const QIncrementDesignsUsed = `--sql 71f757e8-75a9-4e89-a6e4-ca35afd26d0a
update users
set designs_used = designs_used + 1,
    updated_at = now()
where clerk_user_id = $1::text
returning designs_used;
`

const QUpdateAccountPlan = `--sql e199f4a8-0b4d-4659-b76f-5675e9a5bbfe
update users
set plan = $2::text,
    designs_limit = $3::int,
    subscription_status = $4::text,
    subscription_start_date = $5::timestamptz,
    updated_at = now()
where clerk_user_id = $1::text
returning
    clerk_user_id,
    email,
    coalesce(display_name, '') as display_name,
    plan,
    designs_used,
    designs_limit,
    subscription_status,
    subscription_start_date,
    created_at,
    updated_at;
`
