package repo

// Credit accounts are keyed by custid through transactiondetails.customerid;
// walk-in customers are keyed by the phone on their payments. Rank ties
// resolve on product number.

const paidInvoices = `(
            SELECT DISTINCT invoiceno::text AS invoiceno, phone, custid
            FROM public.payment
            WHERE phone IS NOT NULL AND phone <> ''
        )`

const productCounts = `
    product_purchases AS (
        SELECT
            td.productno::text AS productno,
            p.description,
            COUNT(td.productno) AS purchase_count
        FROM public.transactiondetails td
        JOIN public.product p ON td.productno = p.productno
        GROUP BY td.productno, p.description
    )`

// phoneActivity defines phone_activity (one row per phone, spend summed over
// distinct transactions) and phone_top_item (rank-1 item per phone).
const phoneActivity = `
    phone_lines AS (
        SELECT
            pay.phone,
            COUNT(td.productno) AS total_purchases,
            MIN(t.datein) AS first_purchase_date,
            MAX(t.datein) AS last_purchase_date
        FROM public.transactiondetails td
        JOIN public.transactions t ON td.transactionid = t.id
        JOIN ` + paidInvoices + ` pay ON t.invoiceno = pay.invoiceno
        GROUP BY pay.phone
    ),
    phone_spend AS (
        SELECT spent.phone, COALESCE(MAX(c.cname), '') AS customer_name, SUM(spent.totalamount) AS total_spent
        FROM (
            SELECT DISTINCT pay.phone, pay.custid, t.id, t.totalamount
            FROM public.transactions t
            JOIN ` + paidInvoices + ` pay ON t.invoiceno = pay.invoiceno
        ) spent
        JOIN public.customers c ON spent.custid = c.custid
        GROUP BY spent.phone
    ),
    phone_activity AS (
        SELECT
            pl.phone,
            COALESCE(ps.customer_name, '') AS customer_name,
            pl.total_purchases,
            pl.first_purchase_date,
            pl.last_purchase_date,
            ps.total_spent
        FROM phone_lines pl
        LEFT JOIN phone_spend ps ON pl.phone = ps.phone
    ),
    phone_item_counts AS (
        SELECT
            pay.phone,
            td.productno::text AS productno,
            p.description AS product_description,
            COUNT(td.productno) AS purchase_count
        FROM public.transactiondetails td
        JOIN public.transactions t ON td.transactionid = t.id
        JOIN ` + paidInvoices + ` pay ON t.invoiceno = pay.invoiceno
        JOIN public.product p ON td.productno = p.productno
        GROUP BY pay.phone, td.productno, p.description
    ),
    phone_top_item AS (
        SELECT phone, product_description, purchase_count
        FROM (
            SELECT
                phone,
                product_description,
                purchase_count,
                ROW_NUMBER() OVER (PARTITION BY phone ORDER BY purchase_count DESC, productno ASC) AS rn
            FROM phone_item_counts
        ) ranked
        WHERE rn = 1
    )`

const activitySelect = `
SELECT
    pa.phone,
    pa.customer_name,
    pa.total_purchases,
    pa.first_purchase_date,
    pa.last_purchase_date,
    pa.total_spent,
    ti.product_description AS most_purchased_item,
    ti.purchase_count AS most_purchased_item_count
FROM phone_activity pa
LEFT JOIN phone_top_item ti ON pa.phone = ti.phone`

const QueryCreditAccountFavorites = `
WITH
    account_purchases AS (
        SELECT
            c.custid,
            COALESCE(c.cname, '') AS cname,
            c.phone,
            td.productno::text AS productno,
            p.description,
            COUNT(td.productno) AS purchase_count
        FROM public.customers c
        JOIN public.transactiondetails td ON c.custid = td.customerid
        JOIN public.product p ON td.productno = p.productno
        GROUP BY c.custid, c.cname, c.phone, td.productno, p.description
    ),
    ranked AS (
        SELECT
            ap.*,
            ROW_NUMBER() OVER (PARTITION BY ap.custid ORDER BY ap.purchase_count DESC, ap.productno ASC) AS rn
        FROM account_purchases ap
    )
SELECT custid::text AS custid, cname, phone, description, purchase_count, productno
FROM ranked
WHERE rn = 1
ORDER BY ranked.custid`

const QueryDailyCustomerFavorites = `
WITH
    phone_purchases AS (
        SELECT
            pay.phone,
            td.productno::text AS productno,
            p.description,
            COUNT(td.productno) AS purchase_count,
            COALESCE(MAX(c.cname), '') AS customer_name,
            MAX(c.address) AS address,
            MAX(c.email) AS email,
            MAX(c.creditlimit) AS creditlimit,
            MAX(c.balance) AS balance,
            MAX(c.loyaltypoints) AS loyaltypoints,
            MAX(c.loyalty_number::text) AS loyalty_number,
            MAX(c.autodiscount::text) AS autodiscount
        FROM public.transactiondetails td
        JOIN public.transactions t ON td.transactionid = t.id
        JOIN ` + paidInvoices + ` pay ON t.invoiceno = pay.invoiceno
        JOIN public.customers c ON pay.custid = c.custid
        JOIN public.product p ON td.productno = p.productno
        GROUP BY pay.phone, td.productno, p.description
    ),
    ranked AS (
        SELECT
            pp.*,
            ROW_NUMBER() OVER (PARTITION BY pp.phone ORDER BY pp.purchase_count DESC, pp.productno ASC) AS rn
        FROM phone_purchases pp
    )
SELECT
    phone,
    productno,
    description AS most_purchased_item,
    purchase_count,
    customer_name,
    address,
    email,
    creditlimit,
    balance,
    loyaltypoints,
    loyalty_number,
    autodiscount
FROM ranked
WHERE rn = 1
ORDER BY purchase_count DESC, phone ASC`

const QueryHighestActivityCustomers = `
WITH` + phoneActivity + activitySelect + `
ORDER BY pa.total_purchases DESC, pa.phone ASC`

const QueryRarelyPurchased = `
WITH` + productCounts + `
SELECT productno, description, purchase_count
FROM product_purchases
WHERE purchase_count < 20
ORDER BY purchase_count ASC, productno ASC`

const QueryLeastPurchased = `
WITH` + productCounts + `
SELECT productno, description, purchase_count
FROM product_purchases
ORDER BY purchase_count ASC, productno ASC
LIMIT 100`

const QueryLongestTenuredCustomers = `
WITH` + phoneActivity + activitySelect + `
ORDER BY pa.first_purchase_date ASC, pa.phone ASC`

// QueryCatalog lists every product with its line count; products never sold
// count zero.
const QueryCatalog = `
SELECT
    p.productno::text AS productno,
    p.description,
    COALESCE(p.saleprice, 0) AS saleprice,
    COALESCE(p.buyprice, 0) AS buyprice,
    COUNT(td.productno) AS purchase_count
FROM public.product p
LEFT JOIN public.transactiondetails td ON td.productno = p.productno
GROUP BY p.productno, p.description, p.saleprice, p.buyprice
ORDER BY p.productno`
